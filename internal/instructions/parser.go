package instructions

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"clipper/internal/logging"
	"clipper/internal/services"
	"clipper/internal/textutil"
)

const (
	// Delimiter separates the fields of an instruction line.
	Delimiter = "\t"
	// CommentPrefix marks a line that is ignored.
	CommentPrefix = "#"
	// StopToken ends parsing when it is the first field of a line.
	StopToken = "STOP"
	// FieldCount is the number of fields in a valid instruction line.
	FieldCount = 4
)

// Job is one parsed instruction line.
type Job struct {
	OutputName string
	StartTime  string
	EndTime    string
	InputRef   string
	// RawLine is the line as read, without its terminator.
	RawLine string
	// Line is the 1-based line number in the instruction file.
	Line int
}

// Status classifies a single line.
type Status int

const (
	StatusJob Status = iota
	StatusBlank
	StatusComment
	StatusStop
	// StatusShort covers lines with three or fewer fields. They are dropped silently.
	StatusShort
	// StatusMalformed covers lines with more than three fields but not exactly four.
	StatusMalformed
)

func (s Status) String() string {
	switch s {
	case StatusJob:
		return "job"
	case StatusBlank:
		return "blank"
	case StatusComment:
		return "comment"
	case StatusStop:
		return "stop"
	case StatusShort:
		return "short"
	case StatusMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// LineResult is the outcome of parsing one line.
type LineResult struct {
	Status Status
	Job    Job
	Fields int
}

// ParseLine classifies raw and, for four-field lines, extracts a Job. The
// line number is left zero.
func ParseLine(raw string) LineResult {
	raw = strings.TrimRight(raw, "\r\n")
	if strings.TrimSpace(raw) == "" {
		return LineResult{Status: StatusBlank}
	}
	if strings.HasPrefix(raw, CommentPrefix) {
		return LineResult{Status: StatusComment}
	}

	fields := strings.Split(collapseDelimiters(raw), Delimiter)
	if strings.TrimSpace(fields[0]) == StopToken {
		return LineResult{Status: StatusStop, Fields: len(fields)}
	}
	switch {
	case len(fields) == FieldCount:
	case len(fields) < FieldCount:
		return LineResult{Status: StatusShort, Fields: len(fields)}
	default:
		return LineResult{Status: StatusMalformed, Fields: len(fields)}
	}

	return LineResult{
		Status: StatusJob,
		Fields: len(fields),
		Job: Job{
			OutputName: textutil.SanitizeOutputName(fields[0]),
			StartTime:  fields[1],
			EndTime:    fields[2],
			InputRef:   fields[3],
			RawLine:    raw,
		},
	}
}

func collapseDelimiters(line string) string {
	doubled := Delimiter + Delimiter
	for strings.Contains(line, doubled) {
		line = strings.ReplaceAll(line, doubled, Delimiter)
	}
	return line
}

// Parser yields Jobs from an instruction stream in file order. It is not
// restartable: once it reports the end of input it stays there.
type Parser struct {
	scanner *bufio.Scanner
	logger  *slog.Logger
	line    int
	done    bool

	skipped int
}

// NewParser reads UTF-8 input, honouring a leading byte order mark.
func NewParser(r io.Reader, logger *slog.Logger) *Parser {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Parser{
		scanner: scanner,
		logger:  logging.NewComponentLogger(logger, "parser"),
	}
}

// Next returns the next Job. ok is false at end of input or after a stop line.
func (p *Parser) Next(ctx context.Context) (Job, bool, error) {
	for !p.done && p.scanner.Scan() {
		p.line++
		result := ParseLine(p.scanner.Text())
		switch result.Status {
		case StatusJob:
			result.Job.Line = p.line
			return result.Job, true, nil
		case StatusStop:
			p.logger.Debug("stop line reached", logging.Int(logging.FieldLine, p.line))
			p.done = true
		case StatusMalformed:
			p.skipped++
			logging.WarnWithContext(
				logging.WithContext(services.WithLine(ctx, p.line), p.logger),
				"instruction line has unexpected field count",
				"instruction_field_count",
				logging.Int("fields", result.Fields),
				logging.Int("expected", FieldCount),
				logging.String(logging.FieldErrorHint, "separate fields with tabs: output, start, end, input"),
				logging.String(logging.FieldImpact, "line skipped"),
			)
		case StatusShort:
			p.skipped++
		}
	}
	p.done = true
	if err := p.scanner.Err(); err != nil {
		return Job{}, false, services.Wrap(services.ErrParse, "parser", "read", fmt.Sprintf("line %d", p.line+1), err)
	}
	return Job{}, false, nil
}

// Skipped returns how many non-comment lines were dropped so far.
func (p *Parser) Skipped() int {
	return p.skipped
}

// ParseAll drains r into a slice of Jobs.
func ParseAll(ctx context.Context, r io.Reader, logger *slog.Logger) ([]Job, error) {
	parser := NewParser(r, logger)
	var jobs []Job
	for {
		job, ok, err := parser.Next(ctx)
		if err != nil {
			return jobs, err
		}
		if !ok {
			parser.logger.Debug("instructions parsed",
				logging.Int("jobs", len(jobs)),
				logging.Int("skipped", parser.Skipped()),
			)
			return jobs, nil
		}
		jobs = append(jobs, job)
	}
}

// ParseFile opens path and parses it. An unreadable file is a configuration
// error and aborts the batch.
func ParseFile(ctx context.Context, path string, logger *slog.Logger) ([]Job, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "parser", "open instruction file", path, err)
	}
	defer file.Close()
	return ParseAll(ctx, file, logger)
}
