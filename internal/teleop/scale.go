package teleop

// Scale linearly maps x from [inMin, inMax] to [outMin, outMax].
//
// No clamping is performed: an input outside the declared range extrapolates
// past the output bounds. Callers that feed hardware must bound their inputs
// first.
func Scale(x, inMin, inMax, outMin, outMax float64) float64 {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}
