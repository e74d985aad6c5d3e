package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/repcoach/internal/config"
	"github.com/2beens/repcoach/internal/gymstats/exercises"
	"github.com/2beens/repcoach/internal/gymstats/export"
	"github.com/2beens/repcoach/internal/logging"
	"github.com/2beens/repcoach/internal/pose"
	"github.com/2beens/repcoach/pkg"
)

// a single JSONL line holds one frame with 17 keypoints and its angles
const maxLineBytes = 1 << 20

type options struct {
	exercise string
	inPath   string
	outPath  string
	repsOut  string
	env      string
	config   string
}

func main() {
	opts := options{}
	flag.StringVar(&opts.exercise, "exercise", "", "exercise type "+kindsUsage())
	flag.StringVar(&opts.inPath, "in", "-", "JSONL frames file, one frame per line, - for stdin")
	flag.StringVar(&opts.outPath, "out", "-", "summary JSON output file, - for stdout")
	flag.StringVar(&opts.repsOut, "reps-out", "", "optional parquet file for the rep records")
	flag.StringVar(&opts.env, "env", "development", "config environment [prod | production | dev | development]")
	flag.StringVar(&opts.config, "config", "", "optional TOML config with threshold overrides")
	logLevel := flag.String("log-level", "info", "log level [trace | debug | info | warn | error]")
	flag.Parse()

	// logs go to stderr, stdout may carry the summary
	log.SetOutput(os.Stderr)
	log.SetLevel(logging.GetLevel(*logLevel))

	if err := run(opts); err != nil {
		log.Fatalf("repcount: %s", err)
	}
}

func run(opts options) error {
	kind, err := exercises.ParseKind(opts.exercise)
	if err != nil {
		return err
	}

	thresholds := exercises.DefaultThresholds()
	if opts.config != "" {
		cfg, err := config.Load(opts.env, opts.config)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if thresholds, err = cfg.ExerciseThresholds(); err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
	}

	in, closeIn, err := openInput(opts.inPath)
	if err != nil {
		return err
	}
	defer closeIn()

	analysisID := uuid.NewString()
	summary, err := analyze(in, kind, thresholds, log.WithField("analysis_id", analysisID))
	if err != nil {
		return err
	}

	if err := writeSummary(opts.outPath, summary); err != nil {
		return err
	}

	if opts.repsOut != "" {
		data, err := export.RepsParquet(analysisID, kind.String(), summary.Reps)
		if err != nil {
			return fmt.Errorf("export reps: %w", err)
		}
		if err := os.WriteFile(opts.repsOut, data, 0o644); err != nil {
			return fmt.Errorf("write reps file: %w", err)
		}
		log.Infof("%d rep records written to [%s]", len(summary.Reps), opts.repsOut)
	}

	return nil
}

// analyze runs every frame read from r through a fresh session.
func analyze(r io.Reader, kind exercises.Kind, th exercises.Thresholds, logger *log.Entry) (exercises.Summary, error) {
	session, err := exercises.NewSession(kind, th, exercises.WithLogger(logger))
	if err != nil {
		return exercises.Summary{}, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	frames := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var f pose.Frame
		if err := json.Unmarshal([]byte(line), &f); err != nil {
			return exercises.Summary{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		frames++

		res := session.Process(f)
		if res.Rep != nil {
			logger.Debugf("rep %d closed at t=%.2fs, good form: %t", res.Counter, f.T, res.Rep.GoodForm)
		}
	}
	if err := scanner.Err(); err != nil {
		return exercises.Summary{}, fmt.Errorf("read frames: %w", err)
	}
	if frames == 0 {
		return exercises.Summary{}, errors.New("no frames in input")
	}

	session.Finish()
	summary := session.Summary()
	logger.Infof("%s: %d frames, counter %d, %d good / %d bad reps",
		kind.DisplayName(), frames, summary.Counter, summary.GoodReps, summary.BadReps)
	return summary, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	exists, err := pkg.PathExists(path, false)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, fmt.Errorf("frames file [%s] not found", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open frames file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			log.Errorf("close frames file: %s", err)
		}
	}, nil
}

func writeSummary(path string, summary exercises.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	data = append(data, '\n')

	if path == "" || path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func kindsUsage() string {
	names := make([]string, 0, len(exercises.Kinds()))
	for _, k := range exercises.Kinds() {
		names = append(names, k.String())
	}
	return "[" + strings.Join(names, " | ") + "]"
}
