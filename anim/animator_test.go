package anim

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/scenewalk/scene"
)

func newLimb() *scene.Node {
	return scene.NewNode("limb").WithTransform(scene.NewTransform())
}

func TestCountdownThenRedraw(t *testing.T) {
	const steps = 7

	a := New(rand.NewSource(1))
	n := newLimb()
	require.NoError(t, a.Bind(n, FreeRotation()))

	n.Target.Remaining = steps
	n.Target.Delta = mgl32.Vec3{}
	n.Target.Speed = 50

	for i := 0; i < steps; i++ {
		require.False(t, HasReachedTarget(n), "step %d", i)
		require.NoError(t, a.Advance(n))
		assert.Equal(t, steps-i-1, n.Target.Remaining)
	}
	assert.True(t, HasReachedTarget(n))
	assert.Equal(t, mgl32.Vec3{}, n.Transform.Rotation)

	require.NoError(t, a.Advance(n))
	assert.GreaterOrEqual(t, n.Target.Remaining, 50)
	assert.Less(t, n.Target.Remaining, 200)
}

func TestFreshTargetThenStep(t *testing.T) {
	a := New(rand.NewSource(42))
	n := newLimb()
	require.NoError(t, a.Bind(n, FreeRotation()))
	require.True(t, HasReachedTarget(n))

	require.NoError(t, a.Advance(n))
	remaining := n.Target.Remaining
	delta := n.Target.Delta
	assert.Greater(t, remaining, 0)
	assert.NotEqual(t, mgl32.Vec3{}, delta)
	for i := range delta {
		assert.GreaterOrEqual(t, delta[i], float32(-1))
		assert.Less(t, delta[i], float32(1))
	}
	assert.GreaterOrEqual(t, n.Target.Speed, float32(20))
	assert.Less(t, n.Target.Speed, float32(100))
	// a draw frame does not move the node
	assert.Equal(t, mgl32.Vec3{}, n.Transform.Rotation)

	require.NoError(t, a.Advance(n))
	assert.Equal(t, remaining-1, n.Target.Remaining)
	assert.Equal(t, delta, n.Target.Delta)

	speed := n.Target.Speed
	for i := range delta {
		assert.InDelta(t, delta[i]*speed/1000, n.Transform.Rotation[i], 1e-6)
	}
}

func TestSameSeedSameMotion(t *testing.T) {
	run := func() mgl32.Vec3 {
		a := New(rand.NewSource(7))
		n := newLimb()
		require.NoError(t, a.Bind(n, FreeRotation()))
		for i := 0; i < 500; i++ {
			require.NoError(t, a.Step())
		}
		return n.Transform.Rotation
	}
	assert.Equal(t, run(), run())
}

func TestClampAfterMutation(t *testing.T) {
	a := New(rand.NewSource(3))
	n := newLimb()
	n.Bounds = &scene.RotationBounds{
		Min: mgl32.Vec3{-0.1, 0, -0.1},
		Max: mgl32.Vec3{0.1, 0, 0.1},
	}
	require.NoError(t, a.Bind(n, FreeRotation()))

	for i := 0; i < 2000; i++ {
		require.NoError(t, a.Step())
		require.True(t, n.Bounds.Contains(n.Transform.Rotation), "frame %d: %v", i, n.Transform.Rotation)
	}
	// zero bounds lock the axis
	assert.Equal(t, float32(0), n.Transform.Rotation.Y())
}

func TestClampIdempotent(t *testing.T) {
	b := &scene.RotationBounds{Min: mgl32.Vec3{-1, -0.5, -2}, Max: mgl32.Vec3{1, 0.5, 2}}
	for _, v := range []mgl32.Vec3{
		{0, 0, 0},
		{0.3, -0.2, 1.9},
		{5, -5, 0},
		{-1, 0.5, 2},
	} {
		once := b.Clamp(v)
		assert.Equal(t, once, b.Clamp(once), "%v", v)
		if b.Contains(v) {
			assert.Equal(t, v, once)
		}
	}
}

func TestUnboundedNodePassesThrough(t *testing.T) {
	a := New(rand.NewSource(5))
	n := newLimb()
	require.NoError(t, a.Bind(n, Drift()))

	for i := 0; i < 1000; i++ {
		require.NoError(t, a.Step())
	}
	assert.Equal(t, mgl32.Vec3{}, n.Transform.Rotation)
	assert.NotEqual(t, float32(0), n.Transform.Translation.X())
	assert.Equal(t, float32(0), n.Transform.Translation.Y())
}

func TestArmSegmentSpeedFromPosition(t *testing.T) {
	a := New(rand.NewSource(11))
	n := scene.NewNode("arm").WithTransform(scene.Translation(-2, 0, 0))
	n.Bounds = ArmYawLimit()
	require.NoError(t, a.Bind(n, ArmSegment()))

	require.NoError(t, a.Advance(n))
	assert.GreaterOrEqual(t, n.Target.Speed, float32(2))
	assert.Less(t, n.Target.Speed, float32(200))
	assert.GreaterOrEqual(t, n.Target.Remaining, 100)
	assert.Equal(t, float32(0), n.Target.Delta.Z())

	for i := 0; i < 3000; i++ {
		require.NoError(t, a.Step())
		require.LessOrEqual(t, n.Transform.Rotation.Y(), float32(0.5))
		require.GreaterOrEqual(t, n.Transform.Rotation.Y(), float32(-0.5))
	}
}

func TestBindErrors(t *testing.T) {
	a := New(rand.NewSource(1))
	n := newLimb()
	require.NoError(t, a.Bind(n, FreeRotation()))

	err := a.Bind(n, FreeRotation())
	assert.True(t, scene.IsInvariantViolation(err))

	for name, p := range map[string]*Profile{
		"no axes":    {Name: "empty", Steps: IntRange{1, 2}},
		"zero scale": {Name: "zero", Axes: []Axis{{Component: AxisX}}, Steps: IntRange{1, 2}},
		"bad axis":   {Name: "w", Axes: []Axis{{Component: 3, Scale: 1}}, Steps: IntRange{1, 2}},
		"no steps":   {Name: "steps", Axes: []Axis{{Component: AxisX, Scale: 1}}},
	} {
		err := a.Bind(newLimb(), p)
		assert.True(t, scene.IsInvariantViolation(err), name)
	}

	err = a.Advance(newLimb())
	assert.True(t, scene.IsInvariantViolation(err))
}

func TestBindAddsTransform(t *testing.T) {
	a := New(rand.NewSource(1))
	n := scene.NewNode("bare")
	require.NoError(t, a.Bind(n, Drift()))
	require.NotNil(t, n.Transform)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, n.Transform.Scale)
	assert.True(t, a.Bound(n))
	assert.Equal(t, 1, a.Len())
}

func TestProfileByName(t *testing.T) {
	for _, name := range []string{"free", "arm", "drift"} {
		p, ok := ProfileByName(name)
		require.True(t, ok, name)
		assert.Equal(t, name, p.Name)
	}
	_, ok := ProfileByName("walk")
	assert.False(t, ok)

	// fresh copies
	p1, _ := ProfileByName("free")
	p2, _ := ProfileByName("free")
	p1.Axes[0].Scale = 1
	assert.Equal(t, float32(1000), p2.Axes[0].Scale)
}
