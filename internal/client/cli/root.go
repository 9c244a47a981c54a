package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func (a *App) getStatus() string {
	s := string(a.syncCfg.Mode)
	if a.isUnlocked() {
		s += " unlocked"
	} else {
		s += " locked"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root starts the interactive loop on stdin.
func (a *App) Root(ctx context.Context) {
	fmt.Println("PhotoVault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
