package flood

import (
	"math"

	"github.com/lixenwraith/gridflood/parameter"
)

// RadiusToIntensity returns the total intensity an unobstructed effect needs to cover a disc of radius
// Intensity per tile is treated as a cone height rising by slope per tile toward the center,
// truncated to a frustum when maxIntensity > 0 caps the peak
func RadiusToIntensity(radius, slope, maxIntensity float64) float64 {
	if radius <= 0 || slope <= 0 {
		return 0
	}
	cone := slope * math.Pi / 3 * radius * radius * radius
	if maxIntensity <= 0 || slope*radius < maxIntensity {
		return cone
	}
	h := slope*radius - maxIntensity
	return cone - h*math.Pi/3*(h/slope)*(h/slope)
}

// IntensityToRadius inverts RadiusToIntensity
func IntensityToRadius(total, slope, maxIntensity float64) float64 {
	if total <= 0 || slope <= 0 {
		return 0
	}
	if maxIntensity <= 0 {
		return math.Cbrt(3 * total / (slope * math.Pi))
	}

	// Largest radius whose peak stays under the cap
	r0 := maxIntensity / slope
	v0 := RadiusToIntensity(r0, slope, 0)
	if total <= v0 {
		return math.Cbrt(3 * total / (slope * math.Pi))
	}
	return r0 * (math.Sqrt(12*total/v0-3)/6 + 0.5)
}

// StepsToDissipate returns how many unobstructed grid steps an intensity survives on a channel
// Capped at parameter.MaxRadiusCeiling when the channel never decays
func StepsToDissipate(intensity float64, c Channel) int {
	floor := c.floor()
	if !(intensity > floor) {
		return 0
	}
	if c.BaseDecay <= 0 {
		return parameter.MaxRadiusCeiling
	}
	// Step k arrives with intensity - k*decay and must stay strictly above the floor
	steps := math.Ceil((intensity-floor)/c.BaseDecay) - 1
	if steps >= parameter.MaxRadiusCeiling {
		return parameter.MaxRadiusCeiling
	}
	return max(int(steps), 0)
}
