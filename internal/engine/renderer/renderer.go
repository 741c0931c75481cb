// Package renderer draws the shadowed box scene: a depth pass per cascade
// followed by a forward pass that samples the cascade array.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-csm/internal/engine/shader"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow"
	"github.com/Faultbox/midgard-csm/internal/engine/shadow/glstorage"
	"github.com/Faultbox/midgard-csm/pkg/geom"
	"github.com/Faultbox/midgard-csm/pkg/math"
)

// shadowTextureUnit is the unit the cascade array is bound to.
const shadowTextureUnit = 0

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int
}

// Frame holds the per-frame viewer state of the forward pass.
type Frame struct {
	View     math.Mat4
	Proj     math.Mat4
	LightDir math.Vec3
	// FitView is the view matrix of the camera the cascades were fitted
	// to. Cascade selection measures depth with it.
	FitView math.Mat4

	// VisualizeCascades tints every pixel by the cascade it sampled.
	VisualizeCascades bool
}

// Stats counts draws of the last frame.
type Stats struct {
	ShadowDraws int
	SceneDraws  int
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	depthProgram *shader.Program
	sceneProgram *shader.Program
	lineProgram  *shader.Program

	cubeVAO, cubeVBO, cubeEBO uint32
	cubeIndexCount            int32

	lineVAO, lineVBO uint32
	lineCapacity     int

	stats Stats
}

// New creates a renderer. The OpenGL context must be current.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{config: cfg, log: log}

	version, err := glstorage.InitContext()
	if err != nil {
		return nil, err
	}
	log.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.ClearColor(0.45, 0.55, 0.7, 1.0)

	if r.depthProgram, err = shader.CompileProgram(depthVertexShader, depthFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("depth program: %w", err)
	}
	if r.sceneProgram, err = shader.CompileProgram(sceneVertexShader, sceneFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("scene program: %w", err)
	}
	if r.lineProgram, err = shader.CompileProgram(lineVertexShader, lineFragmentShader); err != nil {
		r.Close()
		return nil, fmt.Errorf("line program: %w", err)
	}

	r.createCube()
	r.createLines()

	r.Resize(cfg.Width, cfg.Height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	for _, p := range []*shader.Program{r.depthProgram, r.sceneProgram, r.lineProgram} {
		if p != nil {
			p.Delete()
		}
	}
	if r.cubeVAO != 0 {
		gl.DeleteVertexArrays(1, &r.cubeVAO)
		gl.DeleteBuffers(1, &r.cubeVBO)
		gl.DeleteBuffers(1, &r.cubeEBO)
		r.cubeVAO = 0
	}
	if r.lineVAO != 0 {
		gl.DeleteVertexArrays(1, &r.lineVAO)
		gl.DeleteBuffers(1, &r.lineVBO)
		r.lineVAO = 0
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	r.log.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Stats returns the draw counts of the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// RenderShadows renders the depth of every object that touches a cascade
// into that cascade's layer. It does nothing when shadows are disabled.
func (r *Renderer) RenderShadows(m *shadow.CascadedShadowManager, maps *glstorage.Array, objects []geom.AABB) {
	r.stats.ShadowDraws = 0
	if !m.Enabled() || !maps.Valid() {
		return
	}

	r.depthProgram.Use()
	gl.BindVertexArray(r.cubeVAO)

	for i := 0; i < m.CascadeLevels(); i++ {
		maps.BindLayer(i)
		r.depthProgram.SetMat4("uViewProj", m.ShadowViewProjection(i))
		for _, idx := range m.VisibleObjects(i, objects) {
			r.depthProgram.SetMat4("uModel", boxModel(objects[idx]))
			gl.DrawElements(gl.TRIANGLES, r.cubeIndexCount, gl.UNSIGNED_INT, nil)
			r.stats.ShadowDraws++
		}
	}
	maps.Unbind()

	gl.BindVertexArray(0)
}

// Begin clears the default framebuffer.
func (r *Renderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// DrawScene shades objects with the cascade array. Without an allocated
// array every object is drawn fully lit.
func (r *Renderer) DrawScene(f Frame, m *shadow.CascadedShadowManager, maps *glstorage.Array, objects []geom.AABB) {
	p := r.sceneProgram
	p.Use()

	p.SetMat4("uView", f.View)
	p.SetMat4("uProj", f.Proj)
	p.SetMat4("uFitView", f.FitView)
	p.SetVec3("uLightDir", f.LightDir.Normalize())
	p.SetBool("uVisualize", f.VisualizeCascades)
	p.SetVec3s("uCascadeColors", cascadeColors[:])

	r.uploadCascades(m.ShaderData(), m.Enabled() && maps.Valid())
	if maps.Valid() {
		maps.BindTexture(gl.TEXTURE0 + shadowTextureUnit)
	}
	p.SetInt("uShadowMap", shadowTextureUnit)

	gl.BindVertexArray(r.cubeVAO)
	r.stats.SceneDraws = 0
	for i, b := range objects {
		p.SetMat4("uModel", boxModel(b))
		p.SetVec3("uColor", objectColor(i))
		gl.DrawElements(gl.TRIANGLES, r.cubeIndexCount, gl.UNSIGNED_INT, nil)
		r.stats.SceneDraws++
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) uploadCascades(d shadow.CascadeShaderData, shadowed bool) {
	p := r.sceneProgram
	levels := d.CascadeLevels
	if !shadowed {
		// Zero cascades shade everything fully lit.
		levels = 0
	}

	p.SetMat4("uLightView", d.LightView)
	p.SetVec4s("uCascadeScale", d.Scale[:])
	p.SetVec4s("uCascadeOffset", d.Offset[:])
	p.SetFloats("uPartitionDepths", d.PartitionDepths[:])
	p.SetInt("uCascadeLevels", levels)
	p.SetBool("uIntervalSelection", d.CascadeSelection == shadow.SelectionInterval)
	p.SetBool("uBlend", d.BlendBetweenCascades)
	p.SetFloat("uBlendRange", d.BlendRange)
	p.SetFloat("uTexelSize", d.TexelSize)
	p.SetFloat("uMinBorder", d.MinBorderPadding)
	p.SetFloat("uMaxBorder", d.MaxBorderPadding)
	p.SetInt("uPCFStart", d.PCFBlurStart)
	p.SetInt("uPCFEnd", d.PCFBlurEnd)
	p.SetFloat("uDepthBias", d.PCFDepthBias)
	p.SetBool("uDerivativeOffset", d.DerivativeBasedOffset)
}

// DrawLines draws line-list vertices (x, y, z each) in one color on top of
// the scene.
func (r *Renderer) DrawLines(viewProj math.Mat4, vertices []float32, color math.Vec3) {
	if len(vertices) == 0 {
		return
	}

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	if len(vertices) > r.lineCapacity {
		r.lineCapacity = len(vertices)
		gl.BufferData(gl.ARRAY_BUFFER, r.lineCapacity*4, unsafe.Pointer(&vertices[0]), gl.DYNAMIC_DRAW)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, unsafe.Pointer(&vertices[0]))
	}

	r.lineProgram.Use()
	r.lineProgram.SetMat4("uViewProj", viewProj)
	r.lineProgram.SetVec3("uColor", color)

	gl.Disable(gl.DEPTH_TEST)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/3))
	gl.Enable(gl.DEPTH_TEST)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

func (r *Renderer) createCube() {
	vertices, indices := cubeMesh()
	r.cubeIndexCount = int32(len(indices))

	gl.GenVertexArrays(1, &r.cubeVAO)
	gl.BindVertexArray(r.cubeVAO)

	gl.GenBuffers(1, &r.cubeVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.cubeVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.GenBuffers(1, &r.cubeEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.cubeEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, unsafe.Pointer(&indices[0]), gl.STATIC_DRAW)

	stride := int32(cubeVertexStride * 4)

	// Position attribute (location = 0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, nil)
	gl.EnableVertexAttribArray(0)

	// Normal attribute (location = 1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, unsafe.Pointer(uintptr(3*4)))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	r.log.Debug("cube mesh created",
		zap.Uint32("vao", r.cubeVAO),
		zap.Int32("indices", r.cubeIndexCount),
	)
}

func (r *Renderer) createLines() {
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.BindVertexArray(r.lineVAO)

	gl.GenBuffers(1, &r.lineVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}
