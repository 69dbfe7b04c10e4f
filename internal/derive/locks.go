package derive

import (
	"strconv"
	"strings"
	"time"
)

// Lock confidence labels. Heuristic signals must never be presented with
// the same confidence as confirmed lock records.
const (
	LockConfirmed = "confirmed"
	LockHeuristic = "heuristic"
)

// LockInfo is the output of LiquidityLock.
type LockInfo struct {
	Locked     bool
	Platform   string
	UnlockTime string
	Confidence string
}

// LiquidityLock inspects LP holders for explicit lock records. The first
// holder with the locked flag and a lock-detail entry supplies the unlock
// time; the platform comes from the detail tag, falling back to the
// holder's own tag or display name. Scanning stops once both are known. Holders matching
// the static lock-contract registry count as locked too, with the
// registry's platform name.
func LiquidityLock(lpHolders []Holder, chainKey string) LockInfo {
	info := LockInfo{}

	for _, h := range lpHolders {
		if h.IsLocked != 1 || len(h.LockedDetail) == 0 {
			continue
		}
		detail := h.LockedDetail[0]
		info.Locked = true
		info.Confidence = LockConfirmed
		info.UnlockTime = normalizeUnlockTime(detail.EndTime)
		info.Platform = ClassifyLockPlatform(detail.Tag, h.Tag, h.Name)
		if info.Platform != "" && info.UnlockTime != "" {
			return info
		}
	}
	if info.Locked {
		return info
	}

	// No explicit lock flags; fall back to the static registry.
	for _, h := range lpHolders {
		if platform, ok := KnownLockContract(h.Address, chainKey); ok {
			return LockInfo{
				Locked:     true,
				Platform:   platform.Name,
				Confidence: LockConfirmed,
			}
		}
	}
	return info
}

// ClassifyLockPlatform maps a lock-detail tag (and, as fallbacks, the
// holder's own tag and display name) to a platform name by substring match.
func ClassifyLockPlatform(detailTag string, holderLabels ...string) string {
	if p := classifyTag(detailTag); p != "" {
		return p
	}
	for _, label := range holderLabels {
		if p := classifyTag(label); p != "" {
			return p
		}
	}
	return "Unknown Platform"
}

func classifyTag(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	if t == "" {
		return ""
	}
	switch {
	case strings.Contains(t, "pinklock"):
		return "PinkSale"
	case strings.Contains(t, "unicrypt"):
		return "Unicrypt"
	case strings.Contains(t, "team"):
		if strings.Contains(t, "finance") {
			return "Team Finance"
		}
		return "Team Lock"
	case strings.Contains(t, "liquidity"):
		return "Liquidity Lock"
	}
	return ""
}

// normalizeUnlockTime renders numeric unix timestamps as RFC3339 UTC and
// passes string timestamps through untouched.
func normalizeUnlockTime(endTime string) string {
	s := strings.TrimSpace(endTime)
	if s == "" {
		return ""
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC().Format(time.RFC3339)
	}
	return s
}
