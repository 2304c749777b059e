package physics

import (
	"testing"

	"Mistborn/internal/behaviour"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphereObject(name string, pos mgl32.Vec3, radius float32, layer int) (*behaviour.GameObject, *SphereCollider) {
	obj := behaviour.NewGameObject(name)
	obj.Layer = layer
	obj.Transform.SetPosition(pos)
	col := NewSphereCollider(radius)
	obj.AddComponent(col)
	return obj, col
}

func boxObject(name string, pos, size mgl32.Vec3, layer int) (*behaviour.GameObject, *BoxCollider) {
	obj := behaviour.NewGameObject(name)
	obj.Layer = layer
	obj.Transform.SetPosition(pos)
	col := NewBoxCollider(size)
	obj.AddComponent(col)
	return obj, col
}

func TestRaycastHitsNearest(t *testing.T) {
	w := NewWorld(mgl32.Vec3{0, -9.81, 0})
	near, _ := sphereObject("near", mgl32.Vec3{0, 0, -5}, 1, LayerDefault)
	far, _ := sphereObject("far", mgl32.Vec3{0, 0, -10}, 1, LayerDefault)
	w.Register(far)
	w.Register(near)

	hit, ok := w.Raycast(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, Infinity, AllLayers)

	require.True(t, ok)
	assert.Same(t, near, hit.GameObject)
	assert.InDelta(t, 4, hit.Distance, 1e-4)
	assert.True(t, hit.Normal.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-4))
}

func TestRaycastRespectsMaxDistanceAndMask(t *testing.T) {
	w := NewWorld(mgl32.Vec3{})
	obj, _ := sphereObject("metal", mgl32.Vec3{0, 0, -5}, 1, LayerMetal)
	w.Register(obj)

	_, ok := w.Raycast(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, 3, AllLayers)
	assert.False(t, ok, "hit beyond max distance")

	_, ok = w.Raycast(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, Infinity, MaskOf(LayerGround))
	assert.False(t, ok, "hit on a filtered layer")

	_, ok = w.Raycast(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, Infinity, MaskOf(LayerMetal))
	assert.True(t, ok)
}

func TestQueriesIgnoreTriggersAndContainingColliders(t *testing.T) {
	w := NewWorld(mgl32.Vec3{})
	self, selfCol := sphereObject("self", mgl32.Vec3{}, 1, LayerDefault)
	sense := NewSphereCollider(10)
	sense.Trigger = true
	self.AddComponent(sense)
	w.Register(self)
	_ = selfCol

	_, ok := w.Raycast(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, Infinity, AllLayers)
	assert.False(t, ok)
}

func TestSphereCastWidensRay(t *testing.T) {
	w := NewWorld(mgl32.Vec3{})
	obj, _ := sphereObject("offset", mgl32.Vec3{1.5, 0, -10}, 1, LayerMetal)
	w.Register(obj)

	_, ok := w.Raycast(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, Infinity, AllLayers)
	assert.False(t, ok, "thin ray should miss")

	hit, ok := w.SphereCast(mgl32.Vec3{}, 1, mgl32.Vec3{0, 0, -1}, Infinity, AllLayers)
	require.True(t, ok, "sphere cast should hit")
	assert.Same(t, obj, hit.GameObject)
}

func TestSphereCastAgainstBox(t *testing.T) {
	w := NewWorld(mgl32.Vec3{})
	plate, _ := boxObject("plate", mgl32.Vec3{0, -0.25, 0}, mgl32.Vec3{4, 0.5, 4}, LayerMetal)
	w.Register(plate)

	hit, ok := w.SphereCast(mgl32.Vec3{0, 4, 0}, 1, mgl32.Vec3{0, -1, 0}, 5, MaskOf(LayerMetal))

	require.True(t, ok)
	assert.InDelta(t, 3, hit.Distance, 1e-4)
	assert.InDelta(t, 0, hit.Point.Y(), 1e-4)
}

func TestCheckSphere(t *testing.T) {
	w := NewWorld(mgl32.Vec3{})
	ground, _ := boxObject("ground", mgl32.Vec3{0, -0.5, 0}, mgl32.Vec3{10, 1, 10}, LayerGround)
	w.Register(ground)

	assert.True(t, w.CheckSphere(mgl32.Vec3{0, 0.3, 0}, 0.4, MaskOf(LayerGround)))
	assert.False(t, w.CheckSphere(mgl32.Vec3{0, 1, 0}, 0.4, MaskOf(LayerGround)))
	assert.False(t, w.CheckSphere(mgl32.Vec3{0, 0.3, 0}, 0.4, MaskOf(LayerMetal)))
	assert.Len(t, w.OverlapSphere(mgl32.Vec3{0, 0.3, 0}, 0.4, AllLayers), 1)
}

func TestRaycastAgainstCapsule(t *testing.T) {
	w := NewWorld(mgl32.Vec3{})
	player := behaviour.NewGameObject("player")
	player.Transform.SetPosition(mgl32.Vec3{0, 1, -6})
	player.AddComponent(NewCharacterController(0.5, 2))
	w.Register(player)

	hit, ok := w.Raycast(mgl32.Vec3{0, 1.5, 0}, mgl32.Vec3{0, 0, -1}, 10, AllLayers)
	require.True(t, ok)
	assert.Same(t, player, hit.GameObject)
	assert.InDelta(t, 5.5, hit.Distance, 1e-3)

	_, ok = w.Raycast(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 0, -1}, 10, AllLayers)
	assert.False(t, ok, "ray above the capsule should miss")
}

func TestUnregisterRemovesColliders(t *testing.T) {
	w := NewWorld(mgl32.Vec3{})
	obj, _ := sphereObject("gone", mgl32.Vec3{0, 0, -5}, 1, LayerDefault)
	w.Register(obj)
	w.Unregister(obj)

	_, ok := w.Raycast(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}, Infinity, AllLayers)
	assert.False(t, ok)
}

func TestLayerNames(t *testing.T) {
	mask, err := MaskFromNames([]string{"Ground", "metal"})
	require.NoError(t, err)
	assert.Equal(t, MaskOf(LayerGround, LayerMetal), mask)

	_, err = LayerByName("lava")
	assert.Error(t, err)
}
