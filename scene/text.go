package scene

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gazed/pathtrace/camera"
	"github.com/gazed/pathtrace/geom"
	"github.com/gazed/pathtrace/material"
	"github.com/gazed/pathtrace/vec"
)

// Parse reads the line-oriented scene description named in §6 from r,
// building a material table, an object list, and a camera descriptor as
// it goes. At EOF the object list is BVH-built into the scene root.
// Unknown lines and geometry referencing an unknown material are logged
// via log at warn level and skipped — the parser never aborts on a bad
// line (§4.9). A nil logger discards warnings.
func Parse(r io.Reader, logger *slog.Logger) (Scene, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	materials := make(map[string]geom.Material)
	var objects []geom.Hittable
	cam := camera.DefaultDesc()

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "material":
			if err := parseMaterial(fields, materials); err != nil {
				logger.Warn("skipping malformed material line", "line", lineNo, "error", err)
			}
		case "sphere":
			obj, err := parseSphere(fields, materials)
			if err != nil {
				logger.Warn("skipping malformed sphere line", "line", lineNo, "error", err)
				continue
			}
			objects = append(objects, obj)
		case "cylinder":
			obj, err := parseCylinder(fields, materials)
			if err != nil {
				logger.Warn("skipping malformed cylinder line", "line", lineNo, "error", err)
				continue
			}
			objects = append(objects, obj)
		case "camera":
			block, consumed, err := parseCameraBlock(scanner, &lineNo)
			if err != nil {
				logger.Warn("skipping malformed camera block", "line", lineNo, "error", err)
				continue
			}
			_ = consumed
			cam = block
		default:
			logger.Warn("skipping unrecognized scene line", "line", lineNo, "text", line)
		}
	}
	if err := scanner.Err(); err != nil {
		return Scene{}, fmt.Errorf("scene: reading scene source: %w", err)
	}

	var root geom.Hittable
	if len(objects) == 0 {
		root = geom.NewList()
	} else {
		root = geom.BuildBVH(objects, 0, len(objects))
	}
	return Scene{Root: root, Camera: cam}, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d numeric fields, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// parseMaterial handles:
//
//	material <name> lambertian R G B
//	material <name> metal R G B fuzz
//	material <name> dielectric ior
//	material <name> diffuse_light R G B
func parseMaterial(fields []string, materials map[string]geom.Material) error {
	if len(fields) < 3 {
		return fmt.Errorf("material statement needs a name and a kind")
	}
	name, kind := fields[1], fields[2]
	rest := fields[3:]

	switch kind {
	case "lambertian":
		v, err := parseFloats(rest, 3)
		if err != nil {
			return err
		}
		materials[name] = material.NewLambertian(vec.New(v[0], v[1], v[2]))
	case "metal":
		v, err := parseFloats(rest, 4)
		if err != nil {
			return err
		}
		materials[name] = material.NewMetal(vec.New(v[0], v[1], v[2]), v[3])
	case "dielectric":
		v, err := parseFloats(rest, 1)
		if err != nil {
			return err
		}
		materials[name] = material.NewDielectric(v[0])
	case "diffuse_light":
		v, err := parseFloats(rest, 3)
		if err != nil {
			return err
		}
		materials[name] = material.NewDiffuseLight(vec.New(v[0], v[1], v[2]))
	default:
		return fmt.Errorf("unknown material kind %q", kind)
	}
	return nil
}

// parseSphere handles: sphere cx cy cz radius material_name
func parseSphere(fields []string, materials map[string]geom.Material) (geom.Hittable, error) {
	if len(fields) < 6 {
		return nil, fmt.Errorf("sphere statement needs center, radius and a material name")
	}
	v, err := parseFloats(fields[1:5], 4)
	if err != nil {
		return nil, err
	}
	mat, ok := materials[fields[5]]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", fields[5])
	}
	return geom.NewSphere(vec.New(v[0], v[1], v[2]), v[3], mat), nil
}

// parseCylinder handles: cylinder p1x p1y p1z p2x p2y p2z radius material_name
func parseCylinder(fields []string, materials map[string]geom.Material) (geom.Hittable, error) {
	if len(fields) < 9 {
		return nil, fmt.Errorf("cylinder statement needs both endpoints, radius and a material name")
	}
	v, err := parseFloats(fields[1:8], 7)
	if err != nil {
		return nil, err
	}
	mat, ok := materials[fields[8]]
	if !ok {
		return nil, fmt.Errorf("unknown material %q", fields[8])
	}
	p1 := vec.New(v[0], v[1], v[2])
	p2 := vec.New(v[3], v[4], v[5])
	return geom.NewCylinder(p1, p2, v[6], mat), nil
}

// parseCameraBlock consumes lines from scanner until a bare "end" line,
// accumulating position/look_at/up/vfov overrides onto the default
// camera descriptor.
func parseCameraBlock(scanner *bufio.Scanner, lineNo *int) (camera.Desc, int, error) {
	desc := camera.DefaultDesc()
	consumed := 0
	for scanner.Scan() {
		*lineNo++
		consumed++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "end":
			return desc, consumed, nil
		case "position":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return camera.Desc{}, consumed, err
			}
			desc.Position = vec.New(v[0], v[1], v[2])
		case "look_at":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return camera.Desc{}, consumed, err
			}
			desc.LookAt = vec.New(v[0], v[1], v[2])
		case "up":
			v, err := parseFloats(fields[1:], 3)
			if err != nil {
				return camera.Desc{}, consumed, err
			}
			desc.Up = vec.New(v[0], v[1], v[2])
		case "vfov":
			v, err := parseFloats(fields[1:], 1)
			if err != nil {
				return camera.Desc{}, consumed, err
			}
			desc.VfovDeg = v[0]
		default:
			return camera.Desc{}, consumed, fmt.Errorf("unknown camera field %q", fields[0])
		}
	}
	return camera.Desc{}, consumed, fmt.Errorf("camera block missing terminating \"end\"")
}
