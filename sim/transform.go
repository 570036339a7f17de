package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/common"
)

// Transform is a position and a yaw-only rotation.
type Transform struct {
	pos mgl64.Vec3
	rot mgl64.Quat
}

func NewTransform(pos mgl64.Vec3, yaw float64) *Transform {
	return &Transform{pos: pos, rot: common.YawRotation(yaw)}
}

func (t *Transform) Position() mgl64.Vec3     { return t.pos }
func (t *Transform) Rotation() mgl64.Quat     { return t.rot }
func (t *Transform) SetPosition(p mgl64.Vec3) { t.pos = p }
func (t *Transform) SetRotation(q mgl64.Quat) { t.rot = q.Normalize() }
func (t *Transform) Forward() mgl64.Vec3      { return common.Forward(t.rot) }
func (t *Transform) Yaw() float64             { return common.Yaw(t.rot) }
