package renderer

// Projections are left-handed with depth in [0, 1]. Vertex shaders remap
// clip z so GL's [-1, 1] range writes the same window depth.

const depthVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;
uniform mat4 uModel;

void main() {
	gl_Position = uViewProj * uModel * vec4(aPos, 1.0);
	gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;
}
`

const depthFragmentShader = `
#version 410 core

void main() {
}
`

const sceneVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;
uniform mat4 uFitView;
uniform mat4 uLightView;

out vec3 vNormal;
out vec4 vLightPos;
out float vDepth;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vec4 viewPos = uView * world;

	vNormal = normalize(mat3(uModel) * aNormal);
	vLightPos = uLightView * world;
	vDepth = (uFitView * world).z;

	gl_Position = uProj * viewPos;
	gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;
}
`

const sceneFragmentShader = `
#version 410 core

const int MAX_CASCADES = 8;

in vec3 vNormal;
in vec4 vLightPos;
in float vDepth;

uniform sampler2DArrayShadow uShadowMap;
uniform vec4 uCascadeScale[MAX_CASCADES];
uniform vec4 uCascadeOffset[MAX_CASCADES];
uniform float uPartitionDepths[MAX_CASCADES];
uniform int uCascadeLevels;
uniform bool uIntervalSelection;
uniform bool uBlend;
uniform float uBlendRange;

uniform float uTexelSize;
uniform float uMinBorder;
uniform float uMaxBorder;
uniform int uPCFStart;
uniform int uPCFEnd;
uniform float uDepthBias;
uniform bool uDerivativeOffset;

uniform vec3 uLightDir;
uniform vec3 uColor;
uniform bool uVisualize;
uniform vec3 uCascadeColors[MAX_CASCADES];

out vec4 FragColor;

vec3 cascadeCoord(int i) {
	return vLightPos.xyz * uCascadeScale[i].xyz + uCascadeOffset[i].xyz;
}

bool insideBorder(vec3 uv) {
	return uv.x > uMinBorder && uv.x < uMaxBorder &&
		uv.y > uMinBorder && uv.y < uMaxBorder;
}

float lit(int i, vec3 uv) {
	float bias = uDepthBias;
	if (uDerivativeOffset) {
		bias += fwidth(uv.z);
	}

	// Texture space is top-down; GL rows start at the bottom.
	vec2 base = vec2(uv.x, 1.0 - uv.y);

	float sum = 0.0;
	int taps = 0;
	for (int x = uPCFStart; x < uPCFEnd; ++x) {
		for (int y = uPCFStart; y < uPCFEnd; ++y) {
			vec2 st = base + vec2(x, y) * uTexelSize;
			sum += texture(uShadowMap, vec4(st, float(i), uv.z - bias));
			++taps;
		}
	}
	return sum / float(max(taps, 1));
}

void main() {
	float ndotl = max(dot(normalize(vNormal), -uLightDir), 0.0);
	if (uCascadeLevels <= 0) {
		FragColor = vec4(uColor * (0.25 + 0.75 * ndotl), 1.0);
		return;
	}

	int last = uCascadeLevels - 1;
	int cascade = last;
	float nextWeight = 0.0;

	if (uIntervalSelection) {
		for (int i = 0; i < uCascadeLevels; ++i) {
			if (vDepth < uPartitionDepths[i]) {
				cascade = i;
				break;
			}
		}
		if (uBlend && cascade < last) {
			float begin = cascade > 0 ? uPartitionDepths[cascade - 1] : 0.0;
			float end = uPartitionDepths[cascade];
			float band = 1.0 - (vDepth - begin) / max(end - begin, 1e-6);
			if (band < uBlendRange) {
				nextWeight = 1.0 - band / uBlendRange;
			}
		}
	} else {
		for (int i = 0; i < uCascadeLevels; ++i) {
			if (insideBorder(cascadeCoord(i))) {
				cascade = i;
				break;
			}
		}
		if (uBlend && cascade < last) {
			vec3 uv = cascadeCoord(cascade);
			float band = min(min(uv.x, uv.y), min(1.0 - uv.x, 1.0 - uv.y));
			if (band < uBlendRange) {
				nextWeight = 1.0 - band / uBlendRange;
			}
		}
	}

	float shadow = lit(cascade, cascadeCoord(cascade));
	if (nextWeight > 0.0) {
		shadow = mix(shadow, lit(cascade + 1, cascadeCoord(cascade + 1)), nextWeight);
	}

	vec3 color = uColor * (0.25 + 0.75 * ndotl * shadow);
	if (uVisualize) {
		vec3 tint = mix(uCascadeColors[cascade], uCascadeColors[min(cascade + 1, last)], nextWeight);
		color *= tint;
	}
	FragColor = vec4(color, 1.0);
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uViewProj;

void main() {
	gl_Position = uViewProj * vec4(aPos, 1.0);
	gl_Position.z = gl_Position.z * 2.0 - gl_Position.w;
}
`

const lineFragmentShader = `
#version 410 core

uniform vec3 uColor;

out vec4 FragColor;

void main() {
	FragColor = vec4(uColor, 1.0);
}
`
