package audio

import (
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

// tier names the widest instruction family the fallback-or-better
// dispatcher selected for this process. Detection runs once; the result
// is cached process-wide and is idempotent to call repeatedly.
type tier int

const (
	tierFallback tier = iota
	tierSSE42
	tierAVX
	tierAVX2
	tierAVX512
	tierNEON
	tierSVE
)

var (
	detectOnce   sync.Once
	detectedTier tier
)

// detectFeatures runs the runtime CPU-feature probe exactly once per
// process and caches the result. Silence, Add and ScaleAdd call this on
// every block through effectiveTier; sync.Once keeps the first probe
// safe even when it happens on the audio callback.
func detectFeatures() tier {
	detectOnce.Do(func() {
		detectedTier = probeFeatures()
	})
	return detectedTier
}

func probeFeatures() tier {
	switch runtime.GOARCH {
	case "amd64":
		switch {
		case cpu.X86.HasAVX512F:
			return tierAVX512
		case cpu.X86.HasAVX2:
			return tierAVX2
		case cpu.X86.HasAVX:
			return tierAVX
		case cpu.X86.HasSSE42:
			return tierSSE42
		default:
			return tierFallback
		}
	case "arm64":
		switch {
		case cpu.ARM64.HasSVE:
			return tierSVE
		case cpu.ARM64.HasASIMD:
			return tierNEON
		default:
			return tierFallback
		}
	default:
		return tierFallback
	}
}

// resetFeaturesForTest replaces the cached tier with forced; used only by
// tests that need a specific tier deterministically (tierFallback turns
// all acceleration off).
func resetFeaturesForTest(forced tier) {
	detectOnce = sync.Once{}
	detectOnce.Do(func() { detectedTier = forced })
}
