// Package job runs background tasks on River, a PostgreSQL-backed queue.
//
// A task is any value with a Name and a typed Handle method; scheduled tasks
// add a cron Schedule and take no payload:
//
//	m, err := job.NewManager(pool,
//	    job.WithTask(tasks.NewSendCommentConfirmation(sender, renderer)),
//	    job.WithScheduledTask(tasks.NewPurgeUnconfirmedComments(repo)),
//	    job.WithQueue("mail", cfg.Jobs.MailWorkers),
//	    job.WithLogger(log),
//	)
//
// Inserting inside a transaction makes the job visible only if the
// surrounding writes commit, which is how comment confirmations are queued:
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//	    // insert the comment ...
//	    return m.EnqueueTx(ctx, tx, "send_comment_confirmation", payload, job.InQueue("mail"))
//	})
//
// [Migrate] installs River's tables and runs as part of "inkwell migrate up".
package job
