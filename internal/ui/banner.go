package ui

import (
	"fmt"
	"os"
	"strings"
)

// ASCII banner for the CLI's startup header.
var asciiBanner = []string{
	"░██╗░░░░░░░██╗░█████╗░██████╗░███╗░░░███╗██╗░░██╗░█████╗░██╗░░░░░███████╗",
	"░██║░░██╗░░██║██╔══██╗██╔══██╗████╗░████║██║░░██║██╔══██╗██║░░░░░██╔════╝",
	"░╚██╗████╗██╔╝██║░░██║██████╔╝██╔████╔██║███████║██║░░██║██║░░░░░█████╗░░",
	"░░████╔═████║░██║░░██║██╔══██╗██║╚██╔╝██║██╔══██║██║░░██║██║░░░░░██╔══╝░░",
	"░░╚██╔╝░╚██╔╝░╚█████╔╝██║░░██║██║░╚═╝░██║██║░░██║╚█████╔╝███████╗███████╗",
	"░░░╚═╝░░░╚═╝░░░╚════╝░╚═╝░░╚═╝╚═╝░░░░░╚═╝╚═╝░░╚═╝░╚════╝░╚══════╝╚══════╝",
}

var bannerEmitted = false

// FormatBannerArt returns the ASCII banner, colorized when the terminal
// supports it.
func FormatBannerArt() string {
	if !IsRich() {
		return strings.Join(asciiBanner, "\n")
	}

	var lines []string
	for _, line := range asciiBanner {
		var b strings.Builder
		for _, ch := range line {
			switch ch {
			case '█', '╗', '╔', '╚', '╝', '║':
				b.WriteString(Accent("%c", ch))
			default:
				b.WriteString(Muted("%c", ch))
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// FormatBannerLine returns the version/subtitle line under the banner.
func FormatBannerLine(version, subtitle string) string {
	if IsRich() {
		return fmt.Sprintf("%s %s %s %s",
			Heading("◆ wormhole-client"),
			Info(version),
			Muted("—"),
			Muted(subtitle))
	}
	return fmt.Sprintf("◆ wormhole-client %s — %s", version, subtitle)
}

// EmitBanner prints the banner once, skipping non-TTY output streams.
func EmitBanner(version, subtitle string) {
	if bannerEmitted || !isTTY() {
		return
	}
	fmt.Println()
	fmt.Println(FormatBannerArt())
	fmt.Println()
	fmt.Println(FormatBannerLine(version, subtitle))
	fmt.Println()
	bannerEmitted = true
}

func isTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// ResetBanner allows the banner to print again; used by tests.
func ResetBanner() {
	bannerEmitted = false
}
