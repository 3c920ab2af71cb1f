package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/luccascomvoce/temporizador/internal/duration"
	"github.com/luccascomvoce/temporizador/internal/logging"
	"github.com/luccascomvoce/temporizador/internal/settings"
	"github.com/luccascomvoce/temporizador/internal/timer"
)

// inShell keeps the log file open across commands run from the shell
var inShell bool

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Shell interativo que controla um temporizador em memória",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := timer.DefaultOptions()
			opts.ResetDelay = 0
			session := newShellSession(timer.New(opts), settings.NewMemoryStore(), cmd.OutOrStdout())
			return runInteractiveShell(prompt, session)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "temporizador> ", "texto do prompt")
	return cmd
}

func runInteractiveShell(prompt string, s *shellSession) error {
	historyFile := filepath.Join(os.TempDir(), "temporizador-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	inShell = true
	defer func() { inShell = false }()

	fmt.Fprintln(s.out, "Shell interativo. 'help' mostra os comandos, 'exit' encerra.")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Fprintln(s.out)
			continue
		}
		if err == io.EOF {
			fmt.Fprintln(s.out)
			return nil
		}

		tokens, err := shlex.Split(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(s.out, "Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		switch tokens[0] {
		case "exit", "quit":
			fmt.Fprintln(s.out, "Tchau!")
			return nil
		case "help":
			printShellHelp(s.out)
			continue
		case "shell":
			fmt.Fprintln(s.out, "Já estamos no shell.")
			continue
		case "log":
			if err := handleShellLog(s.out, tokens[1:]); err != nil {
				fmt.Fprintf(s.out, "log: %v\n", err)
			}
			continue
		}

		handled, err := s.exec(tokens)
		if !handled {
			err = executeArgs(tokens)
		}
		if err != nil {
			fmt.Fprintf(s.out, "command error: %v\n", err)
		}
	}
}

// executeArgs runs a regular subcommand from inside the shell
func executeArgs(args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

// shellSession maps shell commands onto a controller and prints the
// resulting effects. Its preferences live only as long as the session.
type shellSession struct {
	ctrl  *timer.Controller
	prefs settings.Store
	out   io.Writer
}

func newShellSession(ctrl *timer.Controller, prefs settings.Store, out io.Writer) *shellSession {
	return &shellSession{ctrl: ctrl, prefs: prefs, out: out}
}

// exec runs one timer command. handled is false for words the session does
// not know, which the caller hands to cobra.
func (s *shellSession) exec(tokens []string) (handled bool, err error) {
	args := tokens[1:]
	switch tokens[0] {
	case "get":
		fmt.Fprintln(s.out, s.ctrl.Value())

	case "status":
		fmt.Fprintf(s.out, "%s %s (%ds)\n", s.ctrl.Value(), s.ctrl.State(), s.ctrl.TotalSeconds())

	case "set":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: set <HH:MM:SS|seconds>")
		}
		v, err := duration.Parse(args[0])
		if err != nil {
			return true, err
		}
		s.report(s.ctrl.SetFromTotalSeconds(v.TotalSeconds()))

	case "modify":
		f, n, err := fieldAndInt(args, "modify <field> <delta>")
		if err != nil {
			return true, err
		}
		s.report(s.ctrl.ModifyField(f, n))

	case "field":
		f, n, err := fieldAndInt(args, "field <field> <value>")
		if err != nil {
			return true, err
		}
		s.report(s.ctrl.SetField(f, n))

	case "normalize":
		if len(args) != 1 {
			return true, fmt.Errorf("usage: normalize <field>")
		}
		f, ok := duration.ParseFieldName(args[0])
		if !ok {
			return true, fmt.Errorf("unknown field %q", args[0])
		}
		s.ctrl.NormalizeField(f)
		fmt.Fprintln(s.out, s.ctrl.Value())

	case "reset":
		s.report(s.ctrl.Reset())

	case "start":
		s.effects(s.ctrl.Start())
	case "pause":
		s.effects(s.ctrl.Pause())
	case "toggle":
		s.effects(s.ctrl.Toggle())

	case "tick":
		n := 1
		if len(args) > 0 {
			n, err = strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return true, fmt.Errorf("invalid tick count %q", args[0])
			}
		}
		for i := 0; i < n && s.ctrl.IsRunning(); i++ {
			s.effects(s.ctrl.Tick(s.ctrl.RunSeq()))
		}
		fmt.Fprintln(s.out, s.ctrl.Value())

	case "sound", "theme":
		return true, s.setPref(tokens[0], args)

	case "prefs":
		st, err := settings.Load(s.prefs)
		if err != nil {
			return true, err
		}
		fmt.Fprintf(s.out, "sound=%s theme=%s\n", onOff(st.SoundEnabled), lightDark(st.LightTheme))

	default:
		return false, nil
	}
	return true, nil
}

func (s *shellSession) setPref(name string, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: sound on|off, theme light|dark")
	}
	st, err := settings.Load(s.prefs)
	if err != nil {
		return err
	}
	switch name + " " + args[0] {
	case "sound on":
		st.SoundEnabled = true
	case "sound off":
		st.SoundEnabled = false
	case "theme light":
		st.LightTheme = true
	case "theme dark":
		st.LightTheme = false
	default:
		return fmt.Errorf("invalid value %q for %s", args[0], name)
	}
	if err := settings.Save(s.prefs, st); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "sound=%s theme=%s\n", onOff(st.SoundEnabled), lightDark(st.LightTheme))
	return nil
}

// bell rings the terminal when sound is on
func (s *shellSession) bell() {
	st, err := settings.Load(s.prefs)
	if err == nil && st.SoundEnabled {
		fmt.Fprint(s.out, "\a")
	}
}

func (s *shellSession) report(changed bool) {
	if !changed {
		fmt.Fprintln(s.out, "ignorado: o temporizador está rodando")
		return
	}
	fmt.Fprintln(s.out, s.ctrl.Value())
}

// effects prints status lines. A deferred reset has no clock to wait for
// here, so it runs at once.
func (s *shellSession) effects(effects []timer.Effect) {
	for _, e := range effects {
		if st := e.Status(); st != "" {
			fmt.Fprintln(s.out, st)
		}
		if e.Type != timer.EffectCompleted {
			continue
		}
		s.bell()
		if e.Delay > 0 {
			s.effects(s.ctrl.ResetElapsed(e.Seq))
		}
	}
}

func fieldAndInt(args []string, usage string) (duration.Field, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("usage: %s", usage)
	}
	f, ok := duration.ParseFieldName(args[0])
	if !ok {
		return 0, 0, fmt.Errorf("unknown field %q", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", args[1])
	}
	return f, n, nil
}

func handleShellLog(out io.Writer, args []string) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 3)")
	fs.StringVar(&level, "level", "", "error|warn|info|debug|trace")
	fs.BoolVarP(&show, "show", "s", false, "mostra o nível atual")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case level != "":
		l, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		logging.SetLevel(l)
	case vcount > 0:
		verbosity = vcount
		logging.SetLevel(logging.FromVerbosity(vcount))
	default:
		fmt.Fprintf(out, "log level: %s\n", logging.LevelName(logging.Level()))
		return nil
	}

	fmt.Fprintf(out, "log level set to %s\n", logging.LevelName(logging.Level()))
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Comandos do temporizador:
  get                        # valor atual HH:MM:SS
  status                     # valor, estado e total em segundos
  set 1:30:00                # define o tempo (HH:MM:SS, MM:SS, SS ou 1h30m)
  modify minutes 5           # soma ao campo com transporte
  field seconds 75           # define um campo, limitado a 0-59
  normalize seconds          # normaliza com transporte
  start | pause | toggle     # controla a contagem
  tick [n]                   # avança n segundos
  reset                      # volta a 00:00:00 (parado)
  sound on|off               # toca o sino ao terminar (só nesta sessão)
  theme light|dark           # preferência de tema (só nesta sessão)
  prefs                      # preferências da sessão
Outros comandos:
  settings get               # preferências salvas
  history --limit 5          # últimas contagens
  log -vv | log --level info # nível do log
  exit / quit                # encerra`)
}
