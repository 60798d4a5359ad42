package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	clrDim    = color.New(color.FgHiBlack)
	clrSubtle = color.New(color.FgWhite)

	clrPrimary   = color.New(color.FgCyan, color.Bold)
	clrSecondary = color.New(color.FgBlue)
	clrAccent    = color.New(color.FgCyan, color.Bold)

	clrSuccess = color.New(color.FgGreen)
	clrError   = color.New(color.FgRed)
	clrWarning = color.New(color.FgYellow)
	clrInfo    = color.New(color.FgBlue)

	badgePrimary = color.New(color.BgBlue, color.FgWhite, color.Bold)
)

const (
	boxTopLeft     = "╭"
	boxTopRight    = "╮"
	boxBottomLeft  = "╰"
	boxBottomRight = "╯"
	boxHorizontal  = "─"
	boxVertical    = "│"
)

// LogStatus prints a level-tagged status line. Levels follow the core's
// error taxonomy: "inf", "err", "warn".
func LogStatus(level, message string) {
	ts := clrDim.Sprint(time.Now().Format("15:04:05"))

	var tag string
	var styledMsg string

	switch level {
	case "inf":
		tag = clrInfo.Sprint("inf")
		styledMsg = clrSubtle.Sprint(message)
	case "err":
		tag = clrError.Sprint("err")
		styledMsg = clrError.Sprint(message)
	case "warn":
		tag = clrWarning.Sprint("warn")
		styledMsg = clrWarning.Sprint(message)
	default:
		tag = clrDim.Sprint(level)
		styledMsg = clrSubtle.Sprint(message)
	}

	fmt.Printf("%s  %s  %s\n", ts, tag, styledMsg)
}

// LogRelay logs the teardown of one forwarded connection: bytes moved in
// each direction, once the pipe closes.
func LogRelay(streamID uint32, targetAddr string, up, down int64) {
	ts := clrDim.Sprint(time.Now().Format("15:04:05"))
	fmt.Printf("%s  %s  %s  %s  %s %s  %s %s\n",
		ts,
		clrSuccess.Sprint("→"),
		clrAccent.Sprintf("stream#%-6d", streamID),
		clrDim.Sprintf("%-22s", targetAddr),
		clrDim.Sprint("↑"), clrSubtle.Sprintf("%-8s", formatBytes(up)),
		clrDim.Sprint("↓"), clrSubtle.Sprintf("%-8s", formatBytes(down)))
}

// LogMetric displays a single metrics field, used when no dashboard is
// attached and metrics are simply echoed to the log.
func LogMetric(name string, value interface{}, unit string) {
	ts := clrDim.Sprint(time.Now().Format("15:04:05"))
	fmt.Printf("%s  %s  %s: %s %s\n",
		ts,
		clrDim.Sprint("◈"),
		clrSubtle.Sprint(name),
		clrAccent.Sprintf("%v", value),
		clrDim.Sprint(unit))
}

func formatBytes(b int64) string {
	switch {
	case b < 1024:
		return fmt.Sprintf("%dB", b)
	case b < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(b)/1024)
	case b < 1024*1024*1024:
		return fmt.Sprintf("%.1fMB", float64(b)/(1024*1024))
	default:
		return fmt.Sprintf("%.1fGB", float64(b)/(1024*1024*1024))
	}
}

// PrintFooter prints a closing message on shutdown.
func PrintFooter(message string) {
	fmt.Println()
	fmt.Printf("  %s %s\n", clrDim.Sprint("▸"), clrDim.Sprint(message))
}
