// Package shell implements the interactive bookstore command loop.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ssargent/bdsm/pkg/archive"
	"github.com/ssargent/bdsm/pkg/codec"
	"github.com/ssargent/bdsm/pkg/metrics"
	"github.com/ssargent/bdsm/pkg/store"
)

// errExit stops the command loop
var errExit = errors.New("exit")

// Config holds the collaborators of a shell
type Config struct {
	In          io.Reader
	Out         io.Writer
	Prompt      string
	ArchiveDir  string
	OpenArchive archive.Opener // defaults to archive.Open
	Persister   *store.Persister
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
}

// Shell reads commands line by line and applies them to a session
type Shell struct {
	in      *bufio.Reader
	out     io.Writer
	prompt  string
	session *Session

	persister *store.Persister
	codec     *codec.BookCodec
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	archiveDir  string
	openArchive archive.Opener
	archive     *archive.Archive

	commands map[string]*command
	order    []*command
}

// New creates a shell operating on session
func New(cfg Config, session *Session) *Shell {
	if cfg.OpenArchive == nil {
		cfg.OpenArchive = archive.Open
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Persister == nil {
		cfg.Persister = store.NewPersister(store.WithLogger(cfg.Logger), store.WithMetrics(cfg.Metrics))
	}
	if session == nil {
		session = NewSession()
	}

	s := &Shell{
		in:          bufio.NewReader(cfg.In),
		out:         cfg.Out,
		prompt:      cfg.Prompt,
		session:     session,
		persister:   cfg.Persister,
		codec:       codec.NewBookCodec(),
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		archiveDir:  cfg.ArchiveDir,
		openArchive: cfg.OpenArchive,
	}
	s.registerCommands()
	return s
}

// Session returns the session the shell operates on
func (s *Shell) Session() *Session {
	return s.session
}

// Run executes commands until exit or end of input
func (s *Shell) Run() error {
	s.updateStats()
	for {
		fmt.Fprint(s.out, s.prompt)

		line, eof, err := s.readLine()
		if err != nil {
			return err
		}

		if fields := strings.Fields(line); len(fields) > 0 {
			if err := s.execute(fields[0], fields[1:]); errors.Is(err, errExit) {
				return nil
			}
		}

		if eof {
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, "Bye.")
			return nil
		}
	}
}

// Close releases the snapshot archive if one was opened
func (s *Shell) Close() error {
	if s.archive == nil {
		return nil
	}
	err := s.archive.Close()
	s.archive = nil
	return err
}

// readLine returns the next line without its terminator. eof reports that the
// input ended, possibly after a final unterminated line.
func (s *Shell) readLine() (line string, eof bool, err error) {
	line, err = s.in.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return strings.TrimRight(line, "\r\n"), true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), false, nil
}

// execute runs one command and accounts for it
func (s *Shell) execute(name string, args []string) error {
	cmd, ok := s.commands[name]
	if !ok {
		fmt.Fprintf(s.out, "Unknown command: %s (type \"help\" for a list of commands)\n", name)
		s.metrics.RecordCommand("unknown", false, 0)
		return nil
	}

	start := time.Now()
	err := s.run(cmd, args)
	failed := err != nil && !errors.Is(err, errExit)

	s.metrics.RecordCommand(cmd.name, !failed, time.Since(start))
	s.updateStats()

	if failed {
		s.logger.Debug().Err(err).Str("command", cmd.name).Msg("command failed")
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return err
}

func (s *Shell) run(cmd *command, args []string) error {
	if len(args) < cmd.minArgs {
		return fmt.Errorf("usage: %s", cmd.usage)
	}
	return cmd.run(s, args)
}

func (s *Shell) updateStats() {
	c := s.session.Catalog
	sold, _ := c.Revenue()
	s.metrics.UpdateCatalogStats(c.Len(), c.InStock(), sold)
}

// confirm asks a yes/no question defaulting to no. eof reports that the input
// ended before an answer was given.
func (s *Shell) confirm(question string) (yes, eof bool, err error) {
	fmt.Fprintf(s.out, "%s [yN] ", question)

	line, eof, err := s.readLine()
	if err != nil {
		return false, false, err
	}
	if eof && line == "" {
		fmt.Fprintln(s.out)
		return false, true, nil
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", eof, nil
}

// getArchive opens the snapshot archive on first use
func (s *Shell) getArchive() (*archive.Archive, error) {
	if s.archive != nil {
		return s.archive, nil
	}
	if s.archiveDir == "" {
		return nil, errors.New("no archive directory configured")
	}
	a, err := s.openArchive(s.archiveDir)
	if err != nil {
		return nil, err
	}
	s.archive = a
	return a, nil
}
