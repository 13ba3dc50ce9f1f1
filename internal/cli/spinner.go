package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

const spinnerInterval = 80 * time.Millisecond

// withSpinner runs fn while animating label on w, then erases the line.
// fn receives ctx unchanged; the animation ends as soon as fn returns or
// ctx is done, whichever comes first, but withSpinner always waits for fn.
func withSpinner(ctx context.Context, w io.Writer, label string, fn func() error) error {
	result := make(chan error, 1)
	go func() { result <- fn() }()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	blank := "\r" + strings.Repeat(" ", len([]rune(label))+2) + "\r"
	drawing := true
	for frame := 0; ; frame++ {
		select {
		case err := <-result:
			if drawing {
				io.WriteString(w, blank)
			}
			return err
		case <-ctx.Done():
			if drawing {
				io.WriteString(w, blank)
				drawing = false
			}
		case <-ticker.C:
			if drawing {
				glyph := string(spinnerFrames[frame%len(spinnerFrames)])
				fmt.Fprintf(w, "\r%s %s", styleIconSpinner.Render(glyph), StyleDim.Render(label))
			}
		}
	}
}
