// Package glstorage backs cascade shadow maps with an OpenGL depth texture
// array, one layer per cascade.
package glstorage

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
)

// ErrStorageUnavailable is returned when no OpenGL context has been
// initialized on this thread.
var ErrStorageUnavailable = errors.New("shadow storage: no OpenGL context")

var contextReady bool

// InitContext loads the OpenGL function pointers for the current context.
// It must be called after the context is made current and before any
// Array is allocated.
func InitContext() (version string, err error) {
	if err := gl.Init(); err != nil {
		return "", fmt.Errorf("initializing OpenGL: %w", err)
	}
	contextReady = true
	return gl.GoStr(gl.GetString(gl.VERSION)), nil
}

// Array is a depth-only GL_TEXTURE_2D_ARRAY with a framebuffer that
// renders into one layer at a time. It implements shadow.Storage.
type Array struct {
	FBO     uint32
	Texture uint32
	Size    int32
	Layers  int32

	bound        bool
	prevViewport [4]int32
}

var _ shadow.Storage = (*Array)(nil)

// Allocate implements shadow.Storage.
func (a *Array) Allocate(size, layers int) error {
	if !contextReady {
		return ErrStorageUnavailable
	}
	a.Release()

	var maxSize, maxLayers int32
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &maxSize)
	gl.GetIntegerv(gl.MAX_ARRAY_TEXTURE_LAYERS, &maxLayers)
	if int32(size) > maxSize || int32(layers) > maxLayers {
		return fmt.Errorf("%dx%d x%d exceeds device limits %d x%d: %w",
			size, size, layers, maxSize, maxLayers, shadow.ErrStorageTooLarge)
	}

	gl.GenTextures(1, &a.Texture)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, a.Texture)
	gl.TexImage3D(
		gl.TEXTURE_2D_ARRAY,
		0,
		gl.DEPTH_COMPONENT32F,
		int32(size),
		int32(size),
		int32(layers),
		0,
		gl.DEPTH_COMPONENT,
		gl.FLOAT,
		nil,
	)
	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
		a.Release()
		return fmt.Errorf("allocating depth texture array: GL error 0x%x", e)
	}

	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Outside the map counts as lit.
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	// sampler2DArrayShadow comparison
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D_ARRAY, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.GenFramebuffers(1, &a.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, a.FBO)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, a.Texture, 0, 0)

	// Depth only
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		a.Release()
		return fmt.Errorf("shadow framebuffer incomplete: status 0x%x", status)
	}

	a.Size = int32(size)
	a.Layers = int32(layers)
	return nil
}

// BindLayer directs depth rendering into cascade layer i and clears it.
// The viewport in effect at the first BindLayer is restored by Unbind.
func (a *Array) BindLayer(i int) {
	if !a.bound {
		gl.GetIntegerv(gl.VIEWPORT, &a.prevViewport[0])
		a.bound = true
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, a.FBO)
	gl.FramebufferTextureLayer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, a.Texture, 0, int32(i))
	gl.Viewport(0, 0, a.Size, a.Size)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	// Front-face culling reduces acne on lit faces.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)
}

// Unbind restores the default framebuffer, viewport and culling.
func (a *Array) Unbind() {
	a.bound = false
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(a.prevViewport[0], a.prevViewport[1], a.prevViewport[2], a.prevViewport[3])
	gl.CullFace(gl.BACK)
}

// BindTexture binds the depth array to the given texture unit for sampling.
func (a *Array) BindTexture(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(gl.TEXTURE_2D_ARRAY, a.Texture)
}

// Valid reports whether the array is allocated.
func (a *Array) Valid() bool {
	return a != nil && a.FBO != 0 && a.Texture != 0
}

// Release implements shadow.Storage.
func (a *Array) Release() {
	if !contextReady {
		return
	}
	if a.FBO != 0 {
		gl.DeleteFramebuffers(1, &a.FBO)
		a.FBO = 0
	}
	if a.Texture != 0 {
		gl.DeleteTextures(1, &a.Texture)
		a.Texture = 0
	}
	a.Size, a.Layers = 0, 0
}
