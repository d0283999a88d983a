package compiler

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/dmitrijs2005/typekeeper/internal/filex"
	"github.com/dmitrijs2005/typekeeper/internal/logging"
)

var ErrNoCommand = errors.New("toolchain command is empty")

// Exec compiles units with an external toolchain invoked as
//
//	<command> <args...> <source> <output>
//
// Anything the toolchain prints on stdout or stderr is a diagnostic.
type Exec struct {
	command string
	args    []string
	logger  logging.Logger
}

// NewExec builds an Exec compiler from argv; argv[0] is the toolchain binary.
func NewExec(argv []string, logger logging.Logger) (*Exec, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrNoCommand
	}
	return &Exec{command: argv[0], args: argv[1:], logger: logger}, nil
}

func (e *Exec) Compile(ctx context.Context, source, target string) error {
	tmp := filex.TempPath(target)

	args := append(append([]string{}, e.args...), source, tmp)
	// Not bound to ctx: a running toolchain is never interrupted.
	cmd := exec.Command(e.command, args...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	runErr := cmd.Run()

	var diags []Diagnostic
	sc := bufio.NewScanner(&output)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			diags = append(diags, Diagnostic{Message: line})
		}
	}
	if runErr != nil {
		diags = append(diags, Diagnostic{Message: fmt.Sprintf("%s: %v", e.command, runErr)})
	}
	if len(diags) == 0 {
		if _, err := os.Stat(tmp); err != nil {
			diags = append(diags, Diagnostic{Message: fmt.Sprintf("%s produced no artifact", e.command)})
		}
	}
	if len(diags) > 0 {
		_ = os.Remove(tmp)
		return &CompileError{Source: source, Diagnostics: diags}
	}

	if err := filex.Commit(tmp, target); err != nil {
		return err
	}

	e.logger.Debug(ctx, "unit compiled", "source", source, "artifact", target, "toolchain", e.command)
	return nil
}
