package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"linkcook-go/internal/client"
)

// promptConfirmer asks on out and reads the answer from in. Only "y" and
// "yes" approve.
type promptConfirmer struct {
	in  io.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (o *RootOptions) confirmer(out io.Writer) client.Confirmer {
	if o.Yes {
		return client.AlwaysConfirm
	}
	in := o.In
	if in == nil {
		in = os.Stdin
	}
	return promptConfirmer{in: in, out: out}
}
