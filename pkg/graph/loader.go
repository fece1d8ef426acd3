package graph

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-scan/pkg/logging"
)

const maxLineBytes = 16 << 20

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	logger      logging.Logger
	defaultProb float32
}

// WithLogger sets the logger used for load warnings and progress.
func WithLogger(logger logging.Logger) LoadOption {
	return func(c *loadConfig) {
		c.logger = logger
	}
}

// WithDefaultProbability sets the probability for lines without one.
func WithDefaultProbability(p float32) LoadOption {
	return func(c *loadConfig) {
		c.defaultProb = p
	}
}

// Load parses an edge list and builds its Index.
//
// Leading '#' lines are comments and may carry a header of the form
// "Nodes <n> Links <m> [Weighted 0|1]" (colons count as whitespace). The
// header only sizes buffers; the parsed data decides the final counts.
// Body lines are "<src> <dst> [<probability>]". Both directions of every
// edge are recorded. On error no index is returned.
func Load(r io.Reader, opts ...LoadOption) (*Index, *LoadStats, error) {
	cfg := loadConfig{defaultProb: DefaultProbability}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := logging.OrDefault(cfg.logger).With(logging.Component("loader"))

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	stats := &LoadStats{}
	var builder *Builder
	inHeader := true
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		if line[0] == '#' {
			if inHeader {
				parseHeader(line, stats)
			}
			continue
		}

		if inHeader {
			inHeader = false
			if stats.Weighted {
				logger.Warn("the network is weighted and this algorithm does not support weights, so the weights are omitted")
			}
			builder = NewBuilder(stats.DeclaredNodes)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] == "Nodes:" {
			continue
		}
		if len(fields) < 2 {
			return nil, nil, &ParseError{Line: lineNo, Text: line, Err: ErrMissingDestination}
		}

		prob := cfg.defaultProb
		if len(fields) > 2 {
			p, err := parseProbability(fields[2])
			if err != nil {
				return nil, nil, &ParseError{Line: lineNo, Text: line, Err: err}
			}
			prob = p
		}

		stats.Lines++
		if !builder.AddEdge(fields[0], fields[1], prob) {
			logger.Debug("self-loop dropped", logging.Vertex(fields[0]), logging.Line(lineNo))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read edge list: %w", err)
	}

	if builder == nil {
		builder = NewBuilder(0)
	}
	stats.SelfLoops = builder.SelfLoops()
	if stats.SelfLoops > 0 {
		logger.Warn("self-loops ignored", logging.Int("self_loops", stats.SelfLoops))
	}

	idx := builder.Build()
	stats.Vertices = idx.NumVertices()
	stats.Arcs = idx.NumArcs()

	if stats.DeclaredNodes != 0 && stats.DeclaredNodes != stats.Vertices {
		logger.Debug("declared node count overridden",
			logging.Int("declared", stats.DeclaredNodes), logging.Vertices(stats.Vertices))
	}
	logger.Info("edge list loaded",
		logging.Vertices(stats.Vertices), logging.Arcs(stats.Arcs), logging.Int("lines", stats.Lines))

	return idx, stats, nil
}

// parseHeader reads "Nodes <n> Links <m> [Weighted <0|1>]" from a comment
// line. Lines that are not a header leave stats untouched.
func parseHeader(line string, stats *LoadStats) {
	line = strings.ReplaceAll(line[1:], ":", " ")
	tokens := strings.Fields(line)
	if len(tokens) < 2 || !strings.EqualFold(tokens[0], "nodes") {
		return
	}

	stats.DeclaredNodes = headerCount(tokens[1])
	if len(tokens) < 4 {
		return
	}
	stats.DeclaredLinks = headerCount(tokens[3])
	if len(tokens) < 6 || !strings.EqualFold(tokens[4], "weighted") {
		return
	}
	stats.Weighted = headerCount(tokens[5]) != 0
}

func headerCount(tok string) int {
	n, err := strconv.Atoi(strings.TrimRight(tok, ","))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func parseProbability(tok string) (float32, error) {
	p, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidProbability, tok)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: %v outside [0,1]", ErrInvalidProbability, p)
	}
	return float32(p), nil
}
