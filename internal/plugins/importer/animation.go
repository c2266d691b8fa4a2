package importer

import (
	"github.com/Faultbox/meshconv/pkg/formats"
	"github.com/Faultbox/meshconv/pkg/math"
)

// span finds the keyframes around timeMs and the blend factor between them.
// Keys are assumed sorted by frame. Past the last key, prev == next.
func span(n int, frame func(i int) int32, timeMs float32) (prev, next int, t float32) {
	for i := 0; i < n; i++ {
		if float32(frame(i)) > timeMs {
			next = i
			break
		}
		prev, next = i, i
	}
	if prev == next {
		return prev, next, 0
	}
	f0, f1 := frame(prev), frame(next)
	if f1 != f0 {
		t = (timeMs - float32(f0)) / float32(f1-f0)
	}
	return prev, next, t
}

func sampleRotation(keys []formats.RSMRotKeyframe, timeMs float32) math.Quat {
	if len(keys) == 0 {
		return math.QuatIdentity()
	}
	prev, next, t := span(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	q0 := math.QuatFromArray(keys[prev].Quaternion)
	if prev == next {
		return q0
	}
	return q0.Slerp(math.QuatFromArray(keys[next].Quaternion), t)
}

func sampleScale(keys []formats.RSMScaleKeyframe, timeMs float32) math.Vec3 {
	if len(keys) == 0 {
		return math.Vec3{X: 1, Y: 1, Z: 1}
	}
	prev, next, t := span(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	return math.V3(keys[prev].Scale).Lerp(math.V3(keys[next].Scale), t)
}

func samplePosition(keys []formats.RSMPosKeyframe, timeMs float32) (math.Vec3, bool) {
	if len(keys) == 0 {
		return math.Vec3{}, false
	}
	prev, next, t := span(len(keys), func(i int) int32 { return keys[i].Frame }, timeMs)
	return math.V3(keys[prev].Position).Lerp(math.V3(keys[next].Position), t), true
}
