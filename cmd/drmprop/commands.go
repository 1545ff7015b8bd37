package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	drm "github.com/NeowayLabs/drmresource"
	"github.com/NeowayLabs/drmresource/mode"
	"github.com/NeowayLabs/drmresource/property"
)

var objectTypes = map[string]uint32{
	"any":       mode.ObjectAny,
	"crtc":      mode.ObjectCrtc,
	"connector": mode.ObjectConnector,
	"plane":     mode.ObjectPlane,
}

func openCard(ctx *cli.Context) (*os.File, error) {
	file, err := drm.OpenCard(cfg.Card)
	if err != nil {
		return nil, err
	}

	// without it the primary and cursor planes stay hidden
	if err := drm.SetClientCap(file, drm.ClientCapUniversalPlanes, 1); err != nil {
		logger.Warn("universal planes not supported", "err", err)
	}
	if ctx.GlobalBool(atomicFlag.Name) {
		if err := drm.SetClientCap(file, drm.ClientCapAtomic, 1); err != nil {
			file.Close()
			return nil, err
		}
	}
	return file, nil
}

func parseObjectType(s string) (uint32, error) {
	typ, ok := objectTypes[strings.ToLower(s)]
	if !ok {
		return 0, errors.Errorf("unknown object type %q", s)
	}
	return typ, nil
}

func parseObjectID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "object id %q", s)
	}
	return uint32(id), nil
}

// parseValue accepts numbers (negative for signed ranges), enum names and,
// for bitmasks, enum names joined with '|'.
func parseValue(p *property.Property, s string) (uint64, error) {
	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return v, nil
	}
	if v, err := strconv.ParseInt(s, 0, 64); err == nil {
		return uint64(v), nil
	}

	if p.IsBitmask() {
		var mask uint64
		for _, name := range strings.Split(s, "|") {
			bit, err := p.EnumValueWithName(strings.TrimSpace(name))
			if err != nil {
				return 0, errors.Wrapf(err, "%s: %q", p.Name(), name)
			}
			mask |= 1 << bit
		}
		return mask, nil
	}

	v, err := p.EnumValueWithName(s)
	if err != nil {
		return 0, errors.Wrapf(err, "%s: %q", p.Name(), s)
	}
	return v, nil
}

// loadArg loads the object named by the first argument.
func loadArg(ctx *cli.Context, file *os.File) (*property.Object, error) {
	id, err := parseObjectID(ctx.Args().Get(0))
	if err != nil {
		return nil, err
	}
	typ, err := parseObjectType(ctx.String(typeFlag.Name))
	if err != nil {
		return nil, err
	}
	return property.LoadObject(property.NewDevice(file), id, typ)
}

func needArgs(ctx *cli.Context, n int) error {
	if ctx.NArg() != n {
		return errors.Errorf("%s: expected %d arguments, got %d (usage: %s)",
			ctx.Command.Name, n, ctx.NArg(), ctx.Command.ArgsUsage)
	}
	return nil
}

func versionAction(ctx *cli.Context) error {
	file, err := drm.OpenCard(cfg.Card)
	if err != nil {
		return err
	}
	defer file.Close()

	v, err := drm.GetVersion(file)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, v)
	return nil
}

func listAction(ctx *cli.Context) error {
	file, err := openCard(ctx)
	if err != nil {
		return err
	}
	defer file.Close()

	res, err := mode.GetResources(file)
	if err != nil {
		return err
	}
	planes, err := mode.GetPlaneResources(file)
	if err != nil {
		return err
	}

	dev := property.NewDevice(file)
	w := ctx.App.Writer

	for _, id := range res.Crtcs {
		crtc, err := mode.GetCrtc(file, id)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("crtc %d", id)
		if crtc.ModeValid != 0 {
			title += fmt.Sprintf(" %s@%d", crtc.Mode.ModeName(), crtc.Mode.Vrefresh)
		}
		if err := listObject(w, dev, title, id, mode.ObjectCrtc); err != nil {
			return err
		}
	}
	for _, id := range res.Connectors {
		conn, err := mode.GetConnector(file, id)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("connector %d %s", id, conn.Name())
		if err := listObject(w, dev, title, id, mode.ObjectConnector); err != nil {
			return err
		}
	}
	for _, id := range planes {
		plane, err := mode.GetPlane(file, id)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("plane %d crtcs=%#x formats=%d", id, plane.PossibleCrtcs, len(plane.Formats))
		if err := listObject(w, dev, title, id, mode.ObjectPlane); err != nil {
			return err
		}
	}
	return nil
}

func listObject(w io.Writer, drv property.Driver, title string, id, typ uint32) error {
	obj, err := property.LoadObject(drv, id, typ)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, title)
	printObject(w, obj)
	return nil
}

func printObject(w io.Writer, obj *property.Object) {
	for _, p := range obj.Properties() {
		fmt.Fprintf(w, "\t%s\n", p)
	}
}

func getAction(ctx *cli.Context) error {
	if err := needArgs(ctx, 2); err != nil {
		return err
	}
	file, err := openCard(ctx)
	if err != nil {
		return err
	}
	defer file.Close()

	obj, err := loadArg(ctx, file)
	if err != nil {
		return err
	}
	p, err := obj.Get(ctx.Args().Get(1))
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, p)
	p.Print(logger)
	return nil
}

func setAction(ctx *cli.Context) error {
	if err := needArgs(ctx, 3); err != nil {
		return err
	}
	file, err := openCard(ctx)
	if err != nil {
		return err
	}
	defer file.Close()

	obj, err := loadArg(ctx, file)
	if err != nil {
		return err
	}
	name := ctx.Args().Get(1)
	p, err := obj.Get(name)
	if err != nil {
		return err
	}
	v, err := parseValue(p, ctx.Args().Get(2))
	if err != nil {
		return err
	}
	if err := obj.Set(property.NewDevice(file), name, v); err != nil {
		return err
	}
	logger.Info("property set", "object", obj.ID(), "property", p)
	fmt.Fprintln(ctx.App.Writer, p)
	return nil
}

func snapshotAction(ctx *cli.Context) error {
	if err := needArgs(ctx, 2); err != nil {
		return err
	}
	file, err := openCard(ctx)
	if err != nil {
		return err
	}
	defer file.Close()

	obj, err := loadArg(ctx, file)
	if err != nil {
		return err
	}
	data, err := property.EncodeSnapshot(obj.Snapshot())
	if err != nil {
		return err
	}
	out := ctx.Args().Get(1)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	logger.Info("snapshot written", "object", obj.ID(), "file", out, "properties", len(obj.Properties()))
	return nil
}

func enumsAction(ctx *cli.Context) error {
	if err := needArgs(ctx, 1); err != nil {
		return err
	}
	file, err := openCard(ctx)
	if err != nil {
		return err
	}
	defer file.Close()

	obj, err := loadArg(ctx, file)
	if err != nil {
		return err
	}
	printEnums(ctx.App.Writer, obj, cfg.Enums)
	return nil
}

// printEnums prints, for every table whose property the object has, the
// HAL value to driver value translation.
func printEnums(w io.Writer, obj *property.Object, tables map[string][]property.HalEnum) {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		table, err := obj.ParseEnums(name, tables[name])
		if err != nil {
			logger.Debug("skipping enum table", "property", name, "err", err)
			continue
		}
		fmt.Fprintf(w, "%s:\n", name)
		for _, e := range tables[name] {
			v, err := property.HalToDrmEnum(e.Value, table)
			if err != nil {
				fmt.Fprintf(w, "\t%#x %s -> unsupported\n", e.Value, e.Name)
				continue
			}
			fmt.Fprintf(w, "\t%#x %s -> %d\n", e.Value, e.Name, v)
		}
	}
}
