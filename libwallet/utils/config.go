package utils

import (
	"fmt"
	"os"
	"time"
)

const (
	LogFileName = "govdash.log"

	// DefaultLogLevel is used when no debuglevel is provided.
	DefaultLogLevel = "info"

	// UserFilePerm is the permission used for directories created by the app.
	UserFilePerm = os.FileMode(0700)

	// DefaultPollInterval is the interval at which the proposal list and the
	// per-proposal lifecycle states are refreshed.
	DefaultPollInterval = 15 * time.Second

	// DefaultRecheckDelay is the delay before the tally is fetched a second
	// time after a successful vote, to absorb confirmation lag.
	DefaultRecheckDelay = 1800 * time.Millisecond

	fullDateformat = "2006-01-02 15:04:05"
)

// FormatUTCTime returns the provided unix timestamp as a UTC date time string.
func FormatUTCTime(timestamp int64) string {
	return time.Unix(timestamp, 0).UTC().Format(fullDateformat)
}

// ShortenAddress returns the first 6 and last 4 characters of a hex address
// joined by an ellipsis. Empty input yields an empty string.
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return fmt.Sprintf("%s...%s", address[:6], address[len(address)-4:])
}

// FormatProposalID shortens very long numeric proposal ids (governor ids are
// keccak hashes rendered as decimals) for display.
func FormatProposalID(id string) string {
	if id == "" {
		return "—"
	}
	if len(id) > 14 {
		return fmt.Sprintf("%s…%s", id[:8], id[len(id)-4:])
	}
	return id
}
