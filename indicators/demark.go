package indicators

import (
	"time"

	"stockanalyze/market"
)

// Demark setup/countdown parameters. The 9-count compares against the close
// four bars back; the countdown phase compares against the close two bars
// back and completes at four.
const (
	demarkSetupLookback     = 4
	demarkSetupTarget       = 9
	demarkCountdownLookback = 2
	demarkCountdownTarget   = 4
)

// DemarkSignal is the derived reading of the TD Sequential state machine.
type DemarkSignal int

const (
	DemarkNone DemarkSignal = iota
	// DemarkUpExhaustion: an up Setup-9 or up countdown completed on the
	// analysis day; possible top.
	DemarkUpExhaustion
	// DemarkDownExhaustion: symmetric; possible bottom.
	DemarkDownExhaustion
)

func (s DemarkSignal) String() string {
	switch s {
	case DemarkUpExhaustion:
		return "up exhaustion"
	case DemarkDownExhaustion:
		return "down exhaustion"
	default:
		return "none"
	}
}

// DemarkResult is the TD Sequential/Countdown state at the final bar of the
// analyzed prefix, plus the most recent completion dates for context.
type DemarkResult struct {
	UpSetup   int // consecutive closes above close[t-4] (0..9)
	DownSetup int

	UpCountdown   int // countdown progress after an up Setup-9 (0..4)
	DownCountdown int

	UpSetupComplete   bool // Setup-9 completed on the final bar
	DownSetupComplete bool

	UpCountdownComplete   bool // countdown reached 4 on the final bar
	DownCountdownComplete bool

	LastUpSetup       time.Time // zero when never completed
	LastDownSetup     time.Time
	LastUpCountdown   time.Time
	LastDownCountdown time.Time

	Signal DemarkSignal
}

// Demark recomputes the TD Sequential/Countdown machine by scanning the full
// prefix from its start. There is no persistent state between calls: the
// result depends only on the bars passed in.
//
// Counting rules:
//   - Setup: each day close[t] > close[t-4] increments the up counter, any
//     other outcome resets it to 0; reaching 9 completes the setup, records
//     close[t-4] as the countdown reference price, and resets the counter.
//     The down side is symmetric with close[t] < close[t-4].
//   - Countdown: armed only after a setup completion. A day increments the
//     up countdown when the close is above both the reference price and the
//     close two days back. Closing at or below the reference price resets
//     the countdown to 0; failing only the two-day comparison leaves it
//     unchanged (the countdown is not required to be consecutive). Reaching
//     4 completes it and the machine waits for the next setup.
func Demark(bars []market.Bar) DemarkResult {
	var (
		r                  DemarkResult
		upCount, downCount int
		upCd, downCd       int
		upRef, downRef     float64

		// bar indices of the latest completions, -1 when none
		lastUp9, lastDown9   = -1, -1
		lastUp13, lastDown13 = -1, -1
	)

	for i := range bars {
		if i < demarkSetupLookback {
			continue
		}
		c := bars[i].Close
		c4 := bars[i-demarkSetupLookback].Close
		c2 := bars[i-demarkCountdownLookback].Close

		if c > c4 {
			upCount++
		} else {
			upCount = 0
		}
		if c < c4 {
			downCount++
		} else {
			downCount = 0
		}

		// The completing day still reads 9; the counter restarts from 0 on
		// the next bar.
		r.UpSetup = upCount
		r.DownSetup = downCount

		r.UpSetupComplete = false
		r.DownSetupComplete = false
		if upCount == demarkSetupTarget {
			upRef = c4
			lastUp9 = i
			r.LastUpSetup = bars[i].Date
			r.UpSetupComplete = true
			upCount = 0
		}
		if downCount == demarkSetupTarget {
			downRef = c4
			lastDown9 = i
			r.LastDownSetup = bars[i].Date
			r.DownSetupComplete = true
			downCount = 0
		}

		r.UpCountdownComplete = false
		if lastUp9 >= 0 && i > lastUp9 {
			// A completed countdown stays done until a fresh setup re-arms it.
			armed := lastUp13 < 0 || lastUp9 > lastUp13
			switch {
			case !armed:
				upCd = 0
			case c > upRef && c > c2 && upCd < demarkCountdownTarget:
				upCd++
				if upCd == demarkCountdownTarget {
					lastUp13 = i
					r.LastUpCountdown = bars[i].Date
					r.UpCountdownComplete = true
				}
			case c <= upRef:
				upCd = 0
			}
		}

		r.DownCountdownComplete = false
		if lastDown9 >= 0 && i > lastDown9 {
			armed := lastDown13 < 0 || lastDown9 > lastDown13
			switch {
			case !armed:
				downCd = 0
			case c < downRef && c < c2 && downCd < demarkCountdownTarget:
				downCd++
				if downCd == demarkCountdownTarget {
					lastDown13 = i
					r.LastDownCountdown = bars[i].Date
					r.DownCountdownComplete = true
				}
			case c >= downRef:
				downCd = 0
			}
		}

		r.UpCountdown = upCd
		r.DownCountdown = downCd
	}

	switch {
	case r.UpSetupComplete || r.UpCountdownComplete:
		r.Signal = DemarkUpExhaustion
	case r.DownSetupComplete || r.DownCountdownComplete:
		r.Signal = DemarkDownExhaustion
	}
	return r
}
