package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"

	"github.com/dmitrymomot/inkwell/internal/repository"
	"github.com/dmitrymomot/inkwell/internal/views"
	"github.com/dmitrymomot/inkwell/middlewares"
	"github.com/dmitrymomot/inkwell/pkg/message"
	"github.com/dmitrymomot/inkwell/pkg/session"
)

// Session keys.
const (
	keyUsername   = "auth.username"
	keyRole       = "auth.role"
	keyRedirect   = "auth.redirect"
	keyOAuthState = "auth.oauth_state"
)

// Identity is the signed-in user. It never holds the password or salt.
type Identity struct {
	Username string
	Role     string
	ID       int64
}

func (i Identity) IsAdmin() bool { return i.Role == repository.RoleAdmin }

// View converts the identity for the layout.
func (i *Identity) View() *views.Identity {
	if i == nil {
		return nil
	}
	return &views.Identity{ID: i.ID, Username: i.Username, Role: i.Role}
}

// SignIn binds u to the session.
func SignIn(sess *session.Session, u *repository.User) {
	sess.Authenticate(strconv.FormatInt(u.ID, 10))
	sess.Set(keyUsername, u.Username)
	sess.Set(keyRole, u.Role)
}

// SignOut drops the identity and keeps the other session values.
func SignOut(sess *session.Session) {
	sess.Logout()
	sess.Delete(keyUsername)
	sess.Delete(keyRole)
}

// FromSession returns the identity stored in sess.
func FromSession(sess *session.Session) (*Identity, bool) {
	if sess == nil || !sess.IsAuthenticated() {
		return nil, false
	}
	id, err := strconv.ParseInt(*sess.UserID, 10, 64)
	if err != nil {
		return nil, false
	}
	return &Identity{
		ID:       id,
		Username: session.ValueOr(sess, keyUsername, ""),
		Role:     session.ValueOr(sess, keyRole, ""),
	}, true
}

// FromRequest returns the identity of the request's session.
func FromRequest(req *message.ServerRequest) (*Identity, bool) {
	return FromSession(middlewares.GetSession(req))
}

// Layout returns layout data for req with the identity filled in.
func Layout(req *message.ServerRequest, title string) views.LayoutData {
	id, _ := FromRequest(req)
	return views.LayoutData{Title: title, Identity: id.View()}
}

// RememberURI stores where to go after the next login or logout.
func RememberURI(sess *session.Session, uri string) {
	sess.Set(keyRedirect, uri)
}

// popRedirect returns and clears the stored redirect, or "/".
func popRedirect(sess *session.Session) string {
	if uri, ok := sess.Pop(keyRedirect); ok && isLocal(uri) {
		return uri
	}
	return "/"
}

// isLocal rejects absolute and protocol-relative targets.
func isLocal(uri string) bool {
	return len(uri) > 0 && uri[0] == '/' && (len(uri) == 1 || (uri[1] != '/' && uri[1] != '\\'))
}

// HashPassword returns hex(sha256(password + salt)).
func HashPassword(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// CheckPassword compares in constant time.
func CheckPassword(u *repository.User, password string) bool {
	got := HashPassword(password, u.Salt)
	return subtle.ConstantTimeCompare([]byte(got), []byte(u.Password)) == 1
}

// NewSalt returns 16 random bytes, hex encoded.
func NewSalt() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
