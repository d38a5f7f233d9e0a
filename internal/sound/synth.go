package sound

import (
	"math"
	"time"
)

const sampleRate = 16000

type toneSpec struct {
	frequencyHz float64
	duration    time.Duration
}

var clackSpecs = map[Asset][]toneSpec{
	// Low double thud for the carriage-return class.
	AssetEnter: {
		{frequencyHz: 180, duration: 28 * time.Millisecond},
		{frequencyHz: 130, duration: 42 * time.Millisecond},
	},
	// Single hollow knock for the space bar.
	AssetSpace: {
		{frequencyHz: 240, duration: 34 * time.Millisecond},
	},
	// Short bright tick for everything else.
	AssetClick: {
		{frequencyHz: 1800, duration: 12 * time.Millisecond},
	},
}

// synthesizeClacks renders one PCM cue per asset at the given volume.
func synthesizeClacks(volume float64) map[Asset][]int16 {
	cues := make(map[Asset][]int16, len(clackSpecs))
	for asset, specs := range clackSpecs {
		cues[asset] = synthesizeCue(specs, volume)
	}
	return cues
}

func synthesizeCue(parts []toneSpec, volume float64) []int16 {
	if len(parts) == 0 {
		return nil
	}
	gapSamples := samplesForDuration(8 * time.Millisecond)
	total := 0
	for i, part := range parts {
		total += samplesForDuration(part.duration)
		if i < len(parts)-1 {
			total += gapSamples
		}
	}

	pcm := make([]int16, 0, total)
	for i, part := range parts {
		pcm = append(pcm, synthesizeTone(part, volume)...)
		if i < len(parts)-1 && gapSamples > 0 {
			pcm = append(pcm, make([]int16, gapSamples)...)
		}
	}

	return pcm
}

func synthesizeTone(spec toneSpec, volume float64) []int16 {
	n := samplesForDuration(spec.duration)
	if n <= 0 || spec.frequencyHz <= 0 || volume <= 0 {
		return nil
	}

	attackRelease := n / 10
	maxRamp := sampleRate / 200 // 5ms
	if attackRelease > maxRamp {
		attackRelease = maxRamp
	}
	if attackRelease < 1 {
		attackRelease = 1
	}

	pcm := make([]int16, n)
	for i := 0; i < n; i++ {
		envelope := 1.0
		if i < attackRelease {
			envelope = float64(i) / float64(attackRelease)
		}
		releaseIndex := n - i - 1
		if releaseIndex < attackRelease {
			release := float64(releaseIndex) / float64(attackRelease)
			if release < envelope {
				envelope = release
			}
		}
		t := float64(i) / sampleRate
		sample := math.Sin(2 * math.Pi * spec.frequencyHz * t)
		pcm[i] = int16(math.Round(sample * volume * envelope * 32767))
	}

	return pcm
}

func samplesForDuration(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(d.Seconds() * sampleRate))
}
