package scripts

import (
	"Mistborn/internal/behaviour"
	"Mistborn/internal/config"
	"Mistborn/internal/input"
	"Mistborn/internal/logger"
	"Mistborn/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DangerTag marks objects that restart the level on contact.
const DangerTag = "Danger"

// groundedVelocity keeps a grounded player pressed onto the floor.
const groundedVelocity = -2

// PlayerRig wires the player to the scene.
type PlayerRig struct {
	Mover CharacterMover
	// Camera is a child of the player; it pitches while the body yaws.
	Camera *behaviour.Transform
	// PullAnchor is where pulled objects are held, usually a child of Camera.
	PullAnchor *behaviour.Transform
	// GroundCheck sits at the player's feet.
	GroundCheck *behaviour.Transform
	Query       SpatialQuery
	Restarter   LevelRestarter
	GroundMask  physics.LayerMask
	MetalMask   physics.LayerMask
}

// PlayerController is the first person controller with steel pushing and iron
// pulling.
type PlayerController struct {
	behaviour.BaseComponent
	Mode     PowerMode
	Power    config.PowerTuning
	Movement config.MovementTuning
	Gravity  float32

	rig PlayerRig

	velocity  mgl32.Vec3
	grounded  bool
	launching bool
	xRotation float32

	moveInput mgl32.Vec2
	lookInput mgl32.Vec2

	grab    GrabState
	grabbed *physics.Rigidbody
}

func NewPlayerController(rig PlayerRig, tuning config.Tuning) *PlayerController {
	mode, err := ParsePowerMode(tuning.Power.Mode)
	if err != nil {
		logger.Log.Warn("Falling back to full power mode", zap.Error(err))
	}
	return &PlayerController{
		Mode:     mode,
		Power:    tuning.Power,
		Movement: tuning.Movement,
		Gravity:  tuning.Physics.Gravity,
		rig:      rig,
	}
}

func (p *PlayerController) GetComponentType() behaviour.ComponentType {
	return behaviour.ComponentTypeScript
}

func (p *PlayerController) GetTypeName() string {
	return "PlayerController"
}

func (p *PlayerController) GrabState() GrabState {
	return p.grab
}

// Held returns the grabbed body while pulling or holding.
func (p *PlayerController) Held() *physics.Rigidbody {
	return p.grabbed
}

func (p *PlayerController) Grounded() bool {
	return p.grounded
}

func (p *PlayerController) Launching() bool {
	return p.launching
}

func (p *PlayerController) Velocity() mgl32.Vec3 {
	return p.velocity
}

// Pitch is the camera pitch in degrees, positive looking down.
func (p *PlayerController) Pitch() float32 {
	return p.xRotation
}

// BindInput routes the five player actions to m.
func (p *PlayerController) BindInput(m *input.ActionMap) {
	m.Bind(input.ActionMove, p.Move)
	m.Bind(input.ActionLook, p.Look)
	m.Bind(input.ActionJump, p.Jump)
	m.Bind(input.ActionPull, p.Pull)
	m.Bind(input.ActionPush, p.Push)
}

func (p *PlayerController) Move(ctx input.CallbackContext) {
	p.moveInput = ctx.ReadValue()
}

func (p *PlayerController) Look(ctx input.CallbackContext) {
	p.lookInput = ctx.ReadValue()
}

// Jump takes off when grounded. In the air the button arms launching until it
// is released.
func (p *PlayerController) Jump(ctx input.CallbackContext) {
	switch {
	case ctx.Phase == input.PhaseCanceled:
		p.launching = false
	case p.grounded:
		if ctx.Phase == input.PhaseStarted {
			p.velocity[1] = JumpVelocity(p.Movement.JumpHeight, p.Gravity)
		}
	case ctx.Phase == input.PhaseStarted:
		p.launching = true
	}
}

// Pull grabs the metal object under the crosshair. Releasing the button drops it.
func (p *PlayerController) Pull(ctx input.CallbackContext) {
	switch ctx.Phase {
	case input.PhaseStarted:
		if p.Mode == PowerSimplified {
			p.shove(-p.Power.PushStrength)
			return
		}
		hit, ok := p.aim()
		if !ok || hit.Rigidbody == nil {
			return
		}
		p.Release()
		p.grabbed = hit.Rigidbody
		p.grabbed.SetKinematic(true)
		p.grab = GrabPulling
		logger.Log.Debug("Pulling", zap.String("object", hit.GameObject.Name))
	case input.PhaseCanceled:
		p.Release()
	}
}

// Push drops any held object and shoves the metal object under the crosshair.
// Bodies already moving at PushVelocityCap or faster are left alone. The
// pushStrength/distance falloff is applied in physics.Force mode, so the body
// receives it over the next physics step rather than as an instant impulse.
func (p *PlayerController) Push(ctx input.CallbackContext) {
	if ctx.Phase != input.PhaseStarted {
		return
	}
	if p.Mode == PowerSimplified {
		p.shove(p.Power.PushStrength)
		return
	}
	hit, ok := p.aim()
	if !ok {
		return
	}
	p.Release()
	rb := hit.Rigidbody
	if rb == nil || rb.Speed() >= p.Power.PushVelocityCap {
		return
	}
	distance := rb.Position().Sub(p.GetGameObject().Transform.WorldPosition()).Len()
	rb.AddForce(PushImpulse(p.rig.Camera.Forward(), p.Power.PushStrength, distance, p.Power.MinDistance), physics.Force)
	logger.Log.Debug("Pushed", zap.String("object", hit.GameObject.Name), zap.Float32("distance", distance))
}

func (p *PlayerController) aim() (physics.RaycastHit, bool) {
	if p.rig.Query == nil || p.rig.Camera == nil {
		return physics.RaycastHit{}, false
	}
	return p.rig.Query.SphereCast(p.rig.Camera.WorldPosition(), p.Power.PushRadius, p.rig.Camera.Forward(), physics.Infinity, p.rig.MetalMask)
}

// shove is the simplified push and pull: a force of strength along the view ray.
func (p *PlayerController) shove(strength float32) {
	if p.rig.Query == nil || p.rig.Camera == nil {
		return
	}
	forward := p.rig.Camera.Forward()
	hit, ok := p.rig.Query.Raycast(p.rig.Camera.WorldPosition(), forward, physics.Infinity, p.rig.MetalMask)
	if !ok || hit.Rigidbody == nil {
		return
	}
	hit.Rigidbody.AddForce(forward.Mul(strength), physics.Force)
}

// Release hands the grabbed body back to the simulation. It is safe to call
// when nothing is grabbed.
func (p *PlayerController) Release() {
	if p.grabbed == nil {
		p.grab = GrabIdle
		return
	}
	rb := p.grabbed
	rb.SetKinematic(false)
	if obj := rb.GetGameObject(); obj != nil {
		obj.Transform.SetParent(nil)
		logger.Log.Debug("Released", zap.String("object", obj.Name))
	}
	p.grabbed = nil
	p.grab = GrabIdle
}

func (p *PlayerController) OnDestroy() {
	p.Release()
}

func (p *PlayerController) OnControllerColliderHit(hit behaviour.ControllerHit) {
	if hit.Other == nil || p.rig.Restarter == nil {
		return
	}
	if hit.Other.CompareTag(DangerTag) || hit.Other.Root().CompareTag(DangerTag) {
		logger.Log.Info("Player touched danger", zap.String("object", hit.Other.Name))
		p.rig.Restarter.RestartLevel()
	}
}

func (p *PlayerController) Update(dt float32) {
	p.moveCamera(dt)
	p.movePlayer(dt)

	if p.launching && !p.grounded && p.grab != GrabHeld {
		p.launch()
	}
	if p.grab == GrabPulling {
		p.pull()
	}
}

func (p *PlayerController) moveCamera(dt float32) {
	mouseX := p.lookInput.X() * p.Movement.MouseSensitivity * dt
	mouseY := p.lookInput.Y() * p.Movement.MouseSensitivity * dt

	p.xRotation = mgl32.Clamp(p.xRotation-mouseY, -90, 90)
	if p.rig.Camera != nil {
		// positive xRotation looks down, which is a negative turn about +X
		p.rig.Camera.SetRotation(mgl32.QuatRotate(mgl32.DegToRad(-p.xRotation), mgl32.Vec3{1, 0, 0}))
	}
	p.GetGameObject().Transform.Rotate(mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(-mouseX))
}

func (p *PlayerController) groundCheckPosition() mgl32.Vec3 {
	if p.rig.GroundCheck != nil {
		return p.rig.GroundCheck.WorldPosition()
	}
	return p.GetGameObject().Transform.WorldPosition()
}

func (p *PlayerController) movePlayer(dt float32) {
	if p.rig.Query != nil {
		p.grounded = p.rig.Query.CheckSphere(p.groundCheckPosition(), p.Movement.GroundDistance, p.rig.GroundMask)
	}
	if p.grounded && p.velocity.Y() < 0 {
		p.velocity[1] = groundedVelocity
	}

	t := p.GetGameObject().Transform
	move := t.Right().Mul(p.moveInput.X()).Add(t.Forward().Mul(p.moveInput.Y()))
	p.move(move.Mul(p.Movement.Speed * dt))

	p.velocity[1] += p.Gravity * dt
	p.move(p.velocity.Mul(dt))
}

func (p *PlayerController) move(delta mgl32.Vec3) {
	if p.rig.Mover != nil {
		p.rig.Mover.Move(delta)
		return
	}
	p.GetGameObject().Transform.Translate(delta)
}

// launch pushes off metal below the player.
func (p *PlayerController) launch() {
	if p.rig.Query == nil {
		return
	}
	anchor := p.groundCheckPosition()
	start := anchor.Add(mgl32.Vec3{0, p.Power.LaunchRadius, 0})
	hit, ok := p.rig.Query.SphereCast(start, p.Power.LaunchRadius, mgl32.Vec3{0, -1, 0}, p.Power.LaunchDistance, p.rig.MetalMask)
	if !ok {
		return
	}
	distance := hit.Point.Sub(anchor).Len()
	var v float32
	if p.Mode == PowerSimplified {
		v = SimplifiedLaunchVelocity(p.Power.LaunchVelocity, distance, p.Power.MinDistance)
	} else {
		v = LaunchVelocity(p.Power.LaunchVelocity, distance, p.Power.MinDistance)
	}
	if v > p.velocity.Y() {
		p.velocity[1] = v
	}
}

// pull drags the grabbed body toward the anchor and attaches it on arrival.
func (p *PlayerController) pull() {
	rb := p.grabbed
	if rb == nil || p.rig.PullAnchor == nil {
		return
	}
	anchor := p.rig.PullAnchor.WorldPosition()
	pos := rb.Position()

	if pos.Sub(anchor).Len() < p.Power.PullEpsilon {
		t := rb.GetGameObject().Transform
		t.SetParent(p.rig.PullAnchor)
		t.SetPosition(mgl32.Vec3{})
		rb.SetKinematic(true)
		p.grab = GrabHeld
		logger.Log.Debug("Holding", zap.String("object", rb.GetGameObject().Name))
		return
	}

	rb.SetPosition(PullStep(pos, anchor, p.Power.PullStrength, rb.Mass, p.Power.MinDistance))
	rb.SetKinematic(false)
	rb.Velocity = mgl32.Vec3{}
}
