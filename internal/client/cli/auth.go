package cli

import (
	"context"
	"log"
	"os"
)

// getSimpleText and getSecret are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecret = GetSecret

// Login prompts for a backend-issued session token, resolves the identity
// it carries and publishes it. The subscription re-scope happens through
// the identity change listener wired in NewApp.
//
// An administrator token subscribes to every user's entries; a regular one
// only to the user's own.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret(os.Stdout, "Paste session token")
	if err != nil {
		return err
	}

	sess, err := a.identity.SignIn(string(token))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	log.Printf("Login successful: %s (admin=%v)", sess.UserID, sess.IsAdministrator)
	return nil
}

// Logout clears the published identity. The listener tears the
// subscription down and empties the store before anything else can
// observe it.
func (a *App) Logout(ctx context.Context) error {
	a.identity.SignOut()
	log.Println("Logged out")
	return nil
}
