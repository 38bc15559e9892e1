// Package session keeps per-visitor state across requests.
//
// A Manager reads the session id from a signed cookie (pkg/cookie), loads
// the Session from a Store and writes it back when it changed:
//
//	store := session.NewCacheStore(cache.NewRedis[*session.Session](client, nil, cache.WithPrefix("session")))
//	sessions := session.NewManager(store, cookies)
//
//	sess, err := sessions.Load(ctx, req)
//	sess.Set("redirect", "/edit")
//	resp, err = sessions.Save(ctx, resp, sess)
//
// Values are strings. Authentication is a user id bound with Authenticate.
package session
