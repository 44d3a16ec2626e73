// Package parser reads the scheduler's line-based graph format: one node
// per line, each a whitespace-separated list of "#k" backward references,
// using a bufio.Scanner line loop to build up the graph incrementally.
package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/regwindow/scheduler/internal/dag"
	"github.com/regwindow/scheduler/pkg/schederr"
)

// DefaultMaxSize is the default cap on input node count.
const DefaultMaxSize = 64

// ParserOptions holds configuration for Parser.
type ParserOptions struct {
	// MaxSize is the maximum number of input lines (nodes) accepted.
	MaxSize int
}

// DefaultParserOptions returns the scheduler's default tunables.
func DefaultParserOptions() *ParserOptions {
	return &ParserOptions{MaxSize: DefaultMaxSize}
}

// Parser turns the textual graph format into a dag.Graph.
type Parser struct {
	opts *ParserOptions
}

// NewParser creates a Parser configured with opts, falling back to
// DefaultParserOptions when opts is nil.
func NewParser(opts *ParserOptions) *Parser {
	if opts == nil {
		opts = DefaultParserOptions()
	}
	return &Parser{opts: opts}
}

// Parse reads r line by line, building one graph node per line.
// Node index equals zero-based line number; blank lines still count as a
// node with no operands (per the original source's one-node-per-line
// convention: leading blank lines simply have no tokens). Parse enforces
// MaxSize, raising schederr.CodeCapacityError once the line count would
// exceed it, and reports malformed tokens as schederr.CodeInputError
// wrapped with the offending line number.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*dag.Graph, error) {
	g := dag.NewGraph()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		lineNum++
		if lineNum > p.opts.MaxSize {
			return nil, schederr.New(schederr.CodeCapacityError,
				fmt.Sprintf("input exceeds MAX_SIZE of %d nodes", p.opts.MaxSize))
		}

		offsets, err := parseLine(scanner.Text())
		if err != nil {
			return nil, schederr.Wrap(schederr.CodeInputError,
				fmt.Sprintf("line %d: malformed node", lineNum), err)
		}

		opCode := fmt.Sprintf("op%d", lineNum-1)
		if _, err := g.AppendNode(opCode, offsets); err != nil {
			return nil, schederr.Wrap(schederr.CodeInputError,
				fmt.Sprintf("line %d", lineNum), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, schederr.Wrap(schederr.CodeInputError, "failed reading input", err)
	}

	return g, nil
}

// parseLine splits a line into its backward operand offsets. Each token
// must be of the form "#k" with k a non-negative integer; k = 0 denotes
// the explicit self-reference wrinkle handled by dag.Graph.AppendNode.
func parseLine(line string) ([]int, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	fields := strings.Fields(line)
	offsets := make([]int, 0, len(fields))
	for _, tok := range fields {
		if !strings.HasPrefix(tok, "#") {
			return nil, fmt.Errorf("token %q missing '#' prefix", tok)
		}
		k, err := strconv.Atoi(tok[1:])
		if err != nil {
			return nil, fmt.Errorf("token %q has non-numeric offset: %w", tok, err)
		}
		if k < 0 {
			return nil, fmt.Errorf("token %q has a negative offset", tok)
		}
		offsets = append(offsets, k)
	}
	return offsets, nil
}
