// Package oauth implements GitHub sign-in with golang.org/x/oauth2.
//
// The admin login page links to AuthCodeURL with a random state kept in the
// session. The callback exchanges the code and reads the GitHub account:
//
//	tok, err := p.Exchange(ctx, code)
//	if err != nil {
//		return err
//	}
//	user, err := p.FetchUserInfo(ctx, tok)
//
// The caller then matches user.Login against its own user table.
package oauth
