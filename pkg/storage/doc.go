// Package storage keeps uploaded media in an S3-compatible bucket.
//
// Uploads are sniffed for their content type, checked against validation
// rules and stored under "prefix/<ulid>.<ext>":
//
//	store, err := storage.New(cfg.Storage)
//	if err != nil {
//		return err
//	}
//	info, err := store.Put(ctx, file, size,
//		storage.WithPrefix("media"),
//		storage.WithValidation(storage.NotEmpty(), storage.MaxSize(10<<20), storage.MediaOnly()),
//	)
//
// URL returns a direct link for public-read buckets and a pre-signed link
// otherwise. Errors from S3 are mapped onto ErrNotFound and ErrAccessDenied
// where possible.
package storage
