package scanner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"motifsig/domain/core"
	"motifsig/domain/motif"
	"motifsig/domain/seq"
	"motifsig/ports"
)

// ExternalTool adapts a command-line pattern engine to the MotifScanner
// port. Each batch is written to a temporary FASTA file and the tool is
// invoked once per batch:
//
//	command [extraArgs...] -pattern <expr> [-min-repeats N] [-window N] <fasta>
//
// The tool must print a row-oriented TSV report to stdout with the columns
//
//	sequence_id  start  end  window_id  analytic_p  strand  matched_text  background
//
// where background is a comma-separated frequency histogram. Comment lines
// start with '#'. Sequences absent from the report count as zero matches.
type ExternalTool struct {
	command   string
	extraArgs []string
}

// NewExternalTool creates an adapter around the given command.
func NewExternalTool(command string, extraArgs ...string) *ExternalTool {
	return &ExternalTool{command: command, extraArgs: extraArgs}
}

var _ ports.MotifScanner = (*ExternalTool)(nil)

// CountMatches runs the external engine over the batch and reduces its
// report to per-sequence counts. Any invocation or parse failure wraps
// core.ErrScanner: a batch with an untrusted report poisons the whole run.
func (t *ExternalTool) CountMatches(ctx context.Context, seqs []seq.Sequence, pattern motif.Pattern) ([]int, error) {
	fasta, err := writeBatchFasta(seqs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrScanner, err)
	}
	defer os.Remove(fasta)

	args := append([]string{}, t.extraArgs...)
	args = append(args, "-pattern", pattern.Expr)
	if pattern.MinRepeats > 0 {
		args = append(args, "-min-repeats", strconv.Itoa(pattern.MinRepeats))
	}
	if pattern.Window > 0 {
		args = append(args, "-window", strconv.Itoa(pattern.Window))
	}
	args = append(args, fasta)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s: %v (%s)", core.ErrScanner, t.command, err, strings.TrimSpace(stderr.String()))
	}

	matches, err := ParseReport(&stdout)
	if err != nil {
		return nil, err
	}
	return reduceCounts(matches, len(seqs))
}

// writeBatchFasta stores the batch under synthetic ids trial_1..trial_n.
func writeBatchFasta(seqs []seq.Sequence) (string, error) {
	f, err := os.CreateTemp("", "motifsig-batch-*.fa")
	if err != nil {
		return "", err
	}
	w := bufio.NewWriter(f)
	for i, s := range seqs {
		fmt.Fprintf(w, ">trial_%d\n%s\n", i+1, s.String())
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// ParseReport reads the engine's TSV report into match rows.
func ParseReport(r *bytes.Buffer) ([]motif.Match, error) {
	var matches []motif.Match
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		m, err := parseRow(text)
		if err != nil {
			return nil, fmt.Errorf("%w: report line %d: %v", core.ErrScanner, line, err)
		}
		matches = append(matches, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading report: %v", core.ErrScanner, err)
	}
	return matches, nil
}

func parseRow(text string) (motif.Match, error) {
	fields := strings.Split(text, "\t")
	if len(fields) < 7 {
		return motif.Match{}, fmt.Errorf("expected >= 7 columns, got %d", len(fields))
	}
	start, err := strconv.Atoi(fields[1])
	if err != nil {
		return motif.Match{}, fmt.Errorf("bad start %q", fields[1])
	}
	end, err := strconv.Atoi(fields[2])
	if err != nil {
		return motif.Match{}, fmt.Errorf("bad end %q", fields[2])
	}
	analyticP, err := strconv.ParseFloat(fields[4], 64)
	if err != nil {
		return motif.Match{}, fmt.Errorf("bad analytic p-value %q", fields[4])
	}
	if fields[5] != "+" && fields[5] != "-" {
		return motif.Match{}, fmt.Errorf("bad strand %q", fields[5])
	}

	m := motif.Match{
		SequenceID: fields[0],
		Start:      start,
		End:        end,
		WindowID:   fields[3],
		AnalyticP:  analyticP,
		Strand:     fields[5][0],
		Text:       fields[6],
	}
	if len(fields) >= 8 && fields[7] != "" {
		for _, part := range strings.Split(fields[7], ",") {
			v, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return motif.Match{}, fmt.Errorf("bad background value %q", part)
			}
			m.Background = append(m.Background, v)
		}
	}
	return m, nil
}

// reduceCounts folds match rows into one count per trial_i id. Ids outside
// the batch mean the report does not belong to it.
func reduceCounts(matches []motif.Match, n int) ([]int, error) {
	counts := make([]int, n)
	for _, m := range matches {
		idx, ok := strings.CutPrefix(m.SequenceID, "trial_")
		if !ok {
			return nil, fmt.Errorf("%w: unexpected sequence id %q", core.ErrScanner, m.SequenceID)
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 1 || i > n {
			return nil, fmt.Errorf("%w: sequence id %q outside batch of %d", core.ErrScanner, m.SequenceID, n)
		}
		counts[i-1]++
	}
	return counts, nil
}
