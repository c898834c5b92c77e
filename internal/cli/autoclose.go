package cli

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/yaklabco/goxaml/internal/logging"
	"github.com/yaklabco/goxaml/pkg/autoclose"
	"github.com/yaklabco/goxaml/pkg/editor"
	"github.com/yaklabco/goxaml/pkg/fsutil"
	"github.com/yaklabco/goxaml/pkg/langdetect"
)

type autocloseFlags struct {
	line       int
	character  int
	text       string
	keystrokes bool
	write      bool
	explain    bool
}

func newAutocloseCommand() *cobra.Command {
	flags := &autocloseFlags{}

	cmd := &cobra.Command{
		Use:   "autoclose <file>",
		Short: "Type text into a document and apply closing-tag completion",
		Long: `Simulate typing into a document the way an editor would and print the
resulting line. Typing ">" after an opening tag inserts the matching
closing tag, "/" turns it into a self-closing tag, and a name typed into an
opening tag is mirrored into its closing tag.

Lines and characters are zero-based. With --keystrokes the text is typed
one character at a time and debounced with auto_close.delay, so only the
last keystroke of the burst is completed.

Examples:
  goxaml autoclose App.xaml --line 3 --character 9 --text ">"
  goxaml autoclose App.xaml --line 3 --character 9 --text ">" --write`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAutoclose(cmd, args[0], flags)
		},
	}

	cmd.Flags().IntVar(&flags.line, "line", 0, "zero-based line of the insertion point")
	cmd.Flags().IntVar(&flags.character, "character", 0, "zero-based byte column of the insertion point")
	cmd.Flags().StringVar(&flags.text, "text", "", "text to type")
	cmd.Flags().BoolVar(&flags.keystrokes, "keystrokes", false, "type one character at a time through the debouncer")
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "write the edited document back to the file")
	cmd.Flags().BoolVar(&flags.explain, "explain", false, "print why no completion was applied")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func runAutoclose(cmd *cobra.Command, path string, flags *autocloseFlags) error {
	if flags.text == "" {
		return usageErrorf("--text must not be empty")
	}

	sess, err := loadSession(cmd, nil)
	if err != nil {
		return err
	}

	doc, err := fsutil.ReadDocument(sess.ctx, path)
	if err != nil {
		return &ExitError{Code: ExitIOError, Err: err}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	lang := langdetect.LanguageID(path, []byte(doc.Text))
	mem := editor.NewDocument("file://"+filepath.ToSlash(abs), lang, doc.Text)
	ed := editor.NewMemory(mem)

	settings := sess.cfg.AutoClose
	opts := autoclose.DefaultOptions()
	opts.Languages = settings.Languages
	opts.MaxLines = settings.MaxLines
	opts.MaxLineChars = settings.MaxLineChars
	opts.Delay = settings.Delay
	opts.Logger = sess.logger

	var (
		mu   sync.Mutex
		last = autoclose.Outcome{Reason: autoclose.ReasonNoRewrite}
		fail error
	)
	opts.OnOutcome = func(out autoclose.Outcome, err error) {
		mu.Lock()
		last, fail = out, err
		mu.Unlock()
	}

	tr := autoclose.New(ed, opts)
	defer tr.Close()

	if !settings.Enabled {
		sess.logger.Warn("auto_close is disabled in the configuration, only typing", logging.FieldPath, path)
	}

	outcome, err := typeText(cmd, sess, tr, mem, flags, settings.Enabled)
	if err != nil {
		return err
	}
	if flags.keystrokes && settings.Enabled {
		tr.Wait()
		mu.Lock()
		outcome, err = last, fail
		mu.Unlock()
		if err != nil {
			return fmt.Errorf("auto-close: %w", err)
		}
	}

	region, err := mem.Line(flags.line)
	if err != nil {
		return fmt.Errorf("read line %d: %w", flags.line, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), region.Text)

	if flags.explain {
		switch {
		case !settings.Enabled:
			fmt.Fprintln(cmd.ErrOrStderr(), "not completed: auto_close is disabled")
		case !outcome.Applied():
			fmt.Fprintf(cmd.ErrOrStderr(), "not completed: %s\n", outcome.Reason)
		}
	}

	sess.logger.Debug("autoclose finished",
		logging.FieldLine, flags.line,
		logging.FieldCharacter, flags.character,
		logging.FieldReason, outcome.Reason.String(),
	)

	if !flags.write {
		return nil
	}

	if mem.Text() == doc.Text {
		return nil
	}

	return writeBack(sess, doc, mem.Text())
}

// typeText inserts flags.text into doc. As one change it is processed
// right away; as keystrokes every character is triggered and the caller
// waits for the debounced pass.
func typeText(
	cmd *cobra.Command,
	sess *session,
	tr *autoclose.Transformer,
	doc *editor.MemoryDocument,
	flags *autocloseFlags,
	enabled bool,
) (autoclose.Outcome, error) {
	if !flags.keystrokes {
		ev, err := editor.Type(doc, flags.line, flags.character, flags.text)
		if err != nil {
			return autoclose.Outcome{}, usageError(err)
		}
		if !enabled {
			return autoclose.Outcome{Reason: autoclose.ReasonNoRewrite}, nil
		}

		out, err := tr.Process(sess.ctx, ev)
		if err != nil {
			return out, fmt.Errorf("auto-close: %w", err)
		}
		return out, nil
	}

	character := flags.character
	for _, r := range flags.text {
		ev, err := editor.Type(doc, flags.line, character, string(r))
		if err != nil {
			return autoclose.Outcome{}, usageError(err)
		}
		character += len(string(r))

		if enabled {
			tr.Trigger(commandContext(cmd), ev)
		}
	}

	return autoclose.Outcome{Reason: autoclose.ReasonNoRewrite}, nil
}
