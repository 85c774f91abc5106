package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	sess := a.identity.Current()
	if sess == nil {
		return "(signed out)"
	}
	s := sess.UserID
	if sess.IsAdministrator {
		s += " admin"
	}
	if err := a.ctrl.SyncError(); err != nil {
		s += " !" + string(err.Kind)
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to divelog CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	_ = a.Login(ctx)

	runREPL(ctx, a, a.getStatus, scanner)
}
