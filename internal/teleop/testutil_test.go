package teleop

import (
	"context"
	"strconv"

	"github.com/mavteleop/mavteleop-go/internal/msg"
)

// fakeParams is an in-memory ParamSource for tests.
type fakeParams map[string]string

func (f fakeParams) String(key, def string) (string, error) {
	if v, ok := f[key]; ok {
		return v, nil
	}
	return def, nil
}

func (f fakeParams) Int(key string, def int) (int, error) {
	if v, ok := f[key]; ok {
		return strconv.Atoi(v)
	}
	return def, nil
}

func (f fakeParams) Float(key string, def float64) (float64, error) {
	if v, ok := f[key]; ok {
		return strconv.ParseFloat(v, 64)
	}
	return def, nil
}

func (f fakeParams) Bool(key string, def bool) (bool, error) {
	if v, ok := f[key]; ok {
		return strconv.ParseBool(v)
	}
	return def, nil
}

// defaultNormalizer builds a Normalizer with the stock gamepad layout.
func defaultNormalizer(t interface{ Fatalf(string, ...interface{}) }) *Normalizer {
	norm, err := LoadNormalizer(fakeParams{})
	if err != nil {
		t.Fatalf("LoadNormalizer() error = %v", err)
	}
	return norm
}

// sample builds a full-size joy sample (8 axes, 11 buttons) with the given
// logical axis values under the default layout.
func sample(roll, pitch, yaw, throttle float64) msg.Joy {
	j := msg.Joy{Axes: make([]float64, 8), Buttons: make([]int, 11)}
	j.Axes[3] = roll
	j.Axes[4] = pitch
	j.Axes[0] = yaw
	j.Axes[1] = throttle
	return j
}

// capturing publishers implementing the bus interfaces.

type fakeOverridePub struct {
	frames []msg.OverrideFrame
	err    error
}

func (p *fakeOverridePub) PublishOverride(frame *msg.OverrideFrame) error {
	p.frames = append(p.frames, *frame)
	return p.err
}

type fakeAttitudePub struct {
	poses     []msg.PoseStamped
	throttles []msg.Float64Stamped
}

func (p *fakeAttitudePub) PublishAttitude(pose msg.PoseStamped) error {
	p.poses = append(p.poses, pose)
	return nil
}

func (p *fakeAttitudePub) PublishThrottle(throttle msg.Float64Stamped) error {
	p.throttles = append(p.throttles, throttle)
	return nil
}

type fakeVelocityPub struct {
	twists []msg.TwistStamped
}

func (p *fakeVelocityPub) PublishVelocity(twist msg.TwistStamped) error {
	p.twists = append(p.twists, twist)
	return nil
}

type fakePositionPub struct {
	poses []msg.PoseStamped
}

func (p *fakePositionPub) PublishPosition(pose msg.PoseStamped) error {
	p.poses = append(p.poses, pose)
	return nil
}

type fakeArming struct {
	calls []bool
	err   error
}

func (a *fakeArming) Arm(_ context.Context, arm bool) error {
	a.calls = append(a.calls, arm)
	return a.err
}
