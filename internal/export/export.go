// Package export writes composed character poses as binary glTF.
package export

import (
	"bytes"
	"image/png"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"md3-renderer/internal/character"
	"md3-renderer/internal/texture"
)

// zUpToYUp rotates model space (Z up) into glTF space (Y up).
var zUpToYUp = mgl32.Rotate3DX(-math.Pi / 2)

// Pose builds a glTF document holding one mesh and one node per composed
// mesh. Skins the resolver can load are embedded as PNG; meshes without a
// resolvable skin share an untextured default material. resolver may be nil.
func Pose(meshes []character.RenderMesh, resolver texture.Resolver) (*gltf.Document, error) {
	doc := gltf.NewDocument()
	materials := make(map[string]uint32)

	for _, rm := range meshes {
		if len(rm.Vertices) == 0 {
			continue
		}
		material, err := materialFor(doc, materials, rm.Texture, resolver)
		if err != nil {
			return nil, errors.Wrapf(err, "export: mesh %q", rm.Name)
		}

		n := len(rm.Vertices)
		positions := make([][3]float32, n)
		normals := make([][3]float32, n)
		uvs := make([][2]float32, n)
		indices := make([]uint32, n)
		for i, v := range rm.Vertices {
			positions[i] = zUpToYUp.Mul3x1(v.Position)
			normal := zUpToYUp.Mul3x1(v.Normal)
			if normal.Len() > 0.5 {
				normal = normal.Normalize()
			}
			normals[i] = normal
			uvs[i] = v.TexCoord
			indices[i] = uint32(i)
		}

		attributes := map[string]uint32{
			"POSITION":   modeler.WritePosition(doc, positions),
			"NORMAL":     modeler.WriteNormal(doc, normals),
			"TEXCOORD_0": modeler.WriteTextureCoord(doc, uvs),
		}
		name := rm.Part.String() + "/" + rm.Name
		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: name,
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
				Attributes: attributes,
				Material:   gltf.Index(material),
			}},
		})

		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
	}

	return doc, nil
}

// materialFor returns the material index for a skin path, creating the
// material (and its embedded texture) on first use.
func materialFor(doc *gltf.Document, materials map[string]uint32, texName string, resolver texture.Resolver) (uint32, error) {
	key := texName
	if resolver == nil {
		key = ""
	}
	if idx, ok := materials[key]; ok {
		return idx, nil
	}

	material := &gltf.Material{
		Name:        "default",
		DoubleSided: true,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
		},
	}

	if key != "" {
		if img := resolver.Resolve(key); img != nil {
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return 0, errors.Wrapf(err, "encode skin %q", key)
			}
			imageIndex, err := modeler.WriteImage(doc, key, "image/png", &buf)
			if err != nil {
				return 0, errors.Wrapf(err, "write skin %q", key)
			}
			doc.Samplers = append(doc.Samplers, &gltf.Sampler{
				Name:      key,
				MinFilter: gltf.MinLinear,
				MagFilter: gltf.MagLinear,
				WrapS:     gltf.WrapRepeat,
				WrapT:     gltf.WrapRepeat,
			})
			doc.Textures = append(doc.Textures, &gltf.Texture{
				Name:    key,
				Sampler: gltf.Index(uint32(len(doc.Samplers) - 1)),
				Source:  gltf.Index(imageIndex),
			})
			material.Name = key
			material.PBRMetallicRoughness.BaseColorTexture = &gltf.TextureInfo{
				Index: uint32(len(doc.Textures) - 1),
			}
		}
	}

	idx := uint32(len(doc.Materials))
	doc.Materials = append(doc.Materials, material)
	materials[key] = idx
	return idx, nil
}

// WriteBinary encodes doc as a self-contained .glb stream.
func WriteBinary(w io.Writer, doc *gltf.Document) error {
	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrap(err, "export: encode glb")
	}
	return nil
}
