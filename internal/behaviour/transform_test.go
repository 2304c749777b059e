package behaviour

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func vecClose(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-4)
}

func TestForwardIsNegativeZ(t *testing.T) {
	obj := NewGameObject("Test")

	if !vecClose(obj.Transform.Forward(), mgl32.Vec3{0, 0, -1}) {
		t.Errorf("Expected forward (0,0,-1), got %v", obj.Transform.Forward())
	}
}

func TestLookRotationFacesDirection(t *testing.T) {
	dirs := []mgl32.Vec3{
		{1, 0, 0},
		{0, 0, 1},
		{-3, 0, 4},
		{1, 1, 1},
	}
	for _, dir := range dirs {
		obj := NewGameObject("Test")
		obj.Transform.SetRotation(LookRotation(dir))

		want := dir.Normalize()
		if !vecClose(obj.Transform.Forward(), want) {
			t.Errorf("LookRotation(%v): expected forward %v, got %v", dir, want, obj.Transform.Forward())
		}
	}
}

func TestLookRotationZeroIsIdentity(t *testing.T) {
	if LookRotation(mgl32.Vec3{}) != mgl32.QuatIdent() {
		t.Error("LookRotation of zero vector should be identity")
	}
}

func TestSetParentKeepsWorldPosition(t *testing.T) {
	parent := NewGameObject("Parent")
	parent.Transform.SetPosition(mgl32.Vec3{10, 0, 0})
	parent.Transform.Rotate(mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(90))

	child := NewGameObject("Child")
	child.Transform.SetPosition(mgl32.Vec3{10, 0, -5})

	child.Transform.SetParent(parent.Transform)

	if !vecClose(child.Transform.WorldPosition(), mgl32.Vec3{10, 0, -5}) {
		t.Errorf("Expected world position preserved, got %v", child.Transform.WorldPosition())
	}
	if len(parent.Transform.Children) != 1 {
		t.Errorf("Expected 1 child, got %d", len(parent.Transform.Children))
	}

	parent.Transform.Translate(mgl32.Vec3{0, 2, 0})
	if !vecClose(child.Transform.WorldPosition(), mgl32.Vec3{10, 2, -5}) {
		t.Errorf("Child should follow parent, got %v", child.Transform.WorldPosition())
	}

	child.Transform.SetParent(nil)
	if child.Transform.Parent != nil || len(parent.Transform.Children) != 0 {
		t.Error("SetParent(nil) should detach the child")
	}
	if !vecClose(child.Transform.Position, mgl32.Vec3{10, 2, -5}) {
		t.Errorf("Detached child should keep world position, got %v", child.Transform.Position)
	}
}

func TestMoveTowards(t *testing.T) {
	got := MoveTowards(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{10, 0, 0}, 3)
	if !vecClose(got, mgl32.Vec3{3, 0, 0}) {
		t.Errorf("Expected (3,0,0), got %v", got)
	}

	got = MoveTowards(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, 3)
	if got != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Overshoot should snap to target, got %v", got)
	}
}

func TestAngle(t *testing.T) {
	if a := Angle(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}); mgl32.Abs(a-90) > 1e-3 {
		t.Errorf("Expected 90 degrees, got %v", a)
	}
	if a := Angle(mgl32.Vec3{}, mgl32.Vec3{0, 0, -1}); a != 0 {
		t.Errorf("Expected 0 for degenerate input, got %v", a)
	}
}

func TestRotateStaysUnitLength(t *testing.T) {
	obj := NewGameObject("Test")

	for i := 0; i < 100000; i++ {
		obj.Transform.Rotate(mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(0.37))
	}

	if l := obj.Transform.Rotation.Len(); l < 0.9999 || l > 1.0001 {
		t.Errorf("Expected unit rotation, got length %f", l)
	}
	if l := obj.Transform.Forward().Len(); l < 0.9999 || l > 1.0001 {
		t.Errorf("Expected unit forward, got length %f", l)
	}
}
