package tuitest

import (
	"regexp"
	"strings"
)

// Frame is one normalized terminal paint.
type Frame struct {
	Index int
	ANSI  string
	Plain string
}

var (
	clearScreen = regexp.MustCompile(`\x1b\[[0-9;]*J`)
	csiSequence = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	oscSequence = regexp.MustCompile(`\x1b\][^\x07]*(\x07|\x1b\\)`)
)

func parseFrames(raw []byte) []Frame {
	cleaned := strings.ReplaceAll(string(raw), "\r", "")
	segments := clearScreen.Split(cleaned, -1)
	frames := make([]Frame, 0, len(segments))
	for _, segment := range segments {
		segment = strings.Trim(segment, "\x00")
		segment = strings.TrimPrefix(segment, "\x1b[H")
		if segment == "" {
			continue
		}
		plain := stripANSI(segment)
		if strings.TrimSpace(plain) == "" {
			continue
		}
		frames = append(frames, Frame{Index: len(frames), ANSI: segment, Plain: trimTrailing(plain)})
	}
	if len(frames) == 0 && len(cleaned) > 0 {
		frames = append(frames, Frame{ANSI: cleaned, Plain: trimTrailing(stripANSI(cleaned))})
	}
	return frames
}

// FinalFrame returns the last captured frame, or false when nothing painted.
func (r *Recording) FinalFrame() (Frame, bool) {
	if r == nil || len(r.Frames) == 0 {
		return Frame{}, false
	}
	return r.Frames[len(r.Frames)-1], true
}

// AnyFrameContains reports whether any frame's plain text contains s.
func (r *Recording) AnyFrameContains(s string) bool {
	if r == nil {
		return false
	}
	for _, frame := range r.Frames {
		if strings.Contains(frame.Plain, s) {
			return true
		}
	}
	return false
}

func stripANSI(s string) string {
	s = oscSequence.ReplaceAllString(s, "")
	s = csiSequence.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\x0f", "")
	s = strings.ReplaceAll(s, "\x0e", "")
	return s
}

func trimTrailing(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
