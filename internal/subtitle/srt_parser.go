package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var timestampRegex = regexp.MustCompile(
	`(\d{2,}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2,}):(\d{2}):(\d{2}),(\d{3})`,
)

// ReadSRTFile parses an SRT file from disk.
func ReadSRTFile(path string) ([]RenderedCue, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SRT file: %w", err)
	}
	defer file.Close()

	return ParseSRT(file)
}

// ParseSRT reads SubRip blocks. A leading BOM is ignored and blocks without
// text are skipped.
func ParseSRT(r io.Reader) ([]RenderedCue, error) {
	var cues []RenderedCue
	scanner := bufio.NewScanner(r)

	var current *RenderedCue
	timed := false
	lineNum := 0

	flush := func() {
		if current != nil && len(current.Lines) > 0 {
			cues = append(cues, *current)
		}
		current = nil
		timed = false
	}

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}

		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}

		if current == nil {
			index, err := strconv.Atoi(strings.TrimSpace(line))
			if err == nil {
				current = &RenderedCue{Index: index}
			}
			continue
		}

		if !timed {
			matches := timestampRegex.FindStringSubmatch(line)
			if len(matches) != 9 {
				return nil, fmt.Errorf("missing time range at line %d", lineNum)
			}
			start, err := parseSRTTimestamp(matches[1:5])
			if err != nil {
				return nil, fmt.Errorf("invalid start timestamp at line %d: %w", lineNum, err)
			}
			end, err := parseSRTTimestamp(matches[5:9])
			if err != nil {
				return nil, fmt.Errorf("invalid end timestamp at line %d: %w", lineNum, err)
			}
			current.Start = start
			current.End = end
			timed = true
			continue
		}

		current.Lines = append(current.Lines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading SRT file: %w", err)
	}

	return cues, nil
}

// hours, minutes, seconds, millis
func parseSRTTimestamp(parts []string) (float64, error) {
	var values [4]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil {
			return 0, err
		}
		values[i] = v
	}

	return float64(values[0])*3600 +
		float64(values[1])*60 +
		float64(values[2]) +
		float64(values[3])/1000, nil
}

// Validate reports structural problems: indices out of sequence, inverted
// time ranges and empty cues.
func Validate(cues []RenderedCue) []string {
	var issues []string
	for i, cue := range cues {
		if cue.Index != i+1 {
			issues = append(issues, fmt.Sprintf("cue %d: expected index %d", cue.Index, i+1))
		}
		if cue.End < cue.Start {
			issues = append(issues, fmt.Sprintf("cue %d: end %s before start %s",
				cue.Index, FormatTimestamp(cue.End), FormatTimestamp(cue.Start)))
		}
		if len(cue.Lines) == 0 {
			issues = append(issues, fmt.Sprintf("cue %d: no text", cue.Index))
		}
	}
	return issues
}

// Text joins every cue's lines with single spaces.
func Text(cues []RenderedCue) string {
	var parts []string
	for _, cue := range cues {
		parts = append(parts, cue.Lines...)
	}
	return strings.Join(parts, " ")
}
