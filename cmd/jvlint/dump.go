package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"jvlint/internal/classfile"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.class>",
	Short: "Dump the structure of a class file",
	Long:  `Dump decodes a single class file and prints its constant pool summary, methods and bootstrap methods`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	dumpCmd.Flags().Bool("pool", false, "include the full constant pool listing")
}

type dumpMethod struct {
	Name       string `json:"name"`
	Descriptor string `json:"descriptor"`
	Flags      uint16 `json:"access_flags"`
	Synthetic  bool   `json:"synthetic"`
	CodeLen    int    `json:"code_length"`
}

type dumpBootstrap struct {
	Index     int      `json:"index"`
	MethodRef uint16   `json:"method_ref"`
	Args      []uint16 `json:"args"`
	Handle    string   `json:"handle,omitempty"`
}

type dumpPayload struct {
	Path         string          `json:"path"`
	ClassName    string          `json:"class_name"`
	SourceFile   string          `json:"source_file,omitempty"`
	MajorVersion uint16          `json:"major_version"`
	MinorVersion uint16          `json:"minor_version"`
	PoolSize     int             `json:"pool_size"`
	Methods      []dumpMethod    `json:"methods"`
	Bootstrap    []dumpBootstrap `json:"bootstrap_methods,omitempty"`
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	showPool, err := cmd.Flags().GetBool("pool")
	if err != nil {
		return fmt.Errorf("failed to get pool flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	cls, err := classfile.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	payload, err := collectDump(path, cls)
	if err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "pretty":
		renderDumpPretty(os.Stdout, cls, payload, useColor(colorMode, os.Stdout), showPool)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

func collectDump(path string, cls *classfile.Class) (dumpPayload, error) {
	name, err := cls.Name()
	if err != nil {
		return dumpPayload{}, fmt.Errorf("%s: unresolvable class name: %w", path, err)
	}
	payload := dumpPayload{
		Path:         path,
		ClassName:    name,
		SourceFile:   cls.SourceFile(),
		MajorVersion: cls.MajorVersion,
		MinorVersion: cls.MinorVersion,
		PoolSize:     len(cls.Pool),
	}
	for i := range cls.Methods {
		m := &cls.Methods[i]
		dm := dumpMethod{
			Name:       m.Name,
			Descriptor: m.Descriptor,
			Flags:      m.AccessFlags,
			Synthetic:  m.IsSynthetic(),
		}
		if m.Code != nil {
			dm.CodeLen = len(m.Code.Bytecode)
		}
		payload.Methods = append(payload.Methods, dm)
	}
	if attr, ok := cls.Attribute(classfile.AttrBootstrapMethods); ok {
		entries, err := classfile.BootstrapEntries(attr.Raw)
		if err != nil {
			return dumpPayload{}, fmt.Errorf("%s: malformed BootstrapMethods attribute: %w", path, err)
		}
		for i, e := range entries {
			db := dumpBootstrap{Index: i, MethodRef: e.MethodRef, Args: e.Args}
			if h, err := cls.Pool.MethodHandle(e.MethodRef); err == nil {
				if ref, err := cls.Pool.MethodRef(h.RefIndex); err == nil {
					db.Handle = fmt.Sprintf("kind=%d %s.%s%s", h.Kind, ref.Class, ref.Name, ref.Descriptor)
				}
			}
			payload.Bootstrap = append(payload.Bootstrap, db)
		}
	}
	return payload, nil
}

func renderDumpPretty(out io.Writer, cls *classfile.Class, payload dumpPayload, colored, showPool bool) {
	header := color.New(color.Bold)
	dim := color.New(color.Faint)
	if !colored {
		header.DisableColor()
		dim.DisableColor()
	}

	header.Fprintf(out, "%s\n", payload.ClassName)
	fmt.Fprintf(out, "  version: %d.%d\n", payload.MajorVersion, payload.MinorVersion)
	if payload.SourceFile != "" {
		fmt.Fprintf(out, "  source:  %s\n", payload.SourceFile)
	}
	fmt.Fprintf(out, "  pool:    %d entries\n", payload.PoolSize)

	nameWidth := 0
	for _, m := range payload.Methods {
		if w := runewidth.StringWidth(m.Name); w > nameWidth {
			nameWidth = w
		}
	}
	header.Fprintln(out, "methods:")
	for _, m := range payload.Methods {
		marker := " "
		if m.Synthetic {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %s %s", marker, runewidth.FillRight(m.Name, nameWidth), m.Descriptor)
		if m.CodeLen > 0 {
			dim.Fprintf(out, "  (%d bytes)", m.CodeLen)
		}
		fmt.Fprintln(out)
	}

	if len(payload.Bootstrap) > 0 {
		header.Fprintln(out, "bootstrap methods:")
		for _, b := range payload.Bootstrap {
			fmt.Fprintf(out, "  #%d ref=%d args=%v", b.Index, b.MethodRef, b.Args)
			if b.Handle != "" {
				dim.Fprintf(out, "  %s", b.Handle)
			}
			fmt.Fprintln(out)
		}
	}

	if showPool {
		header.Fprintln(out, "constant pool:")
		for i := uint16(1); int(i) < len(cls.Pool); i++ {
			c, err := cls.Pool.At(i)
			if err != nil {
				continue // second slot of Long/Double
			}
			fmt.Fprintf(out, "  #%-4d %s\n", i, describeConst(cls.Pool, c))
		}
	}
}

func describeConst(pool classfile.Pool, c classfile.Const) string {
	switch v := c.(type) {
	case *classfile.ConstUtf8:
		return fmt.Sprintf("Utf8     %q", v.Value)
	case *classfile.ConstClass:
		name, _ := pool.Utf8(v.NameIndex)
		return fmt.Sprintf("Class    %s", name)
	case *classfile.ConstMethodref:
		return fmt.Sprintf("Method   class=#%d nat=#%d", v.ClassIndex, v.NameAndTypeIndex)
	case *classfile.ConstInterfaceMethodref:
		return fmt.Sprintf("IMethod  class=#%d nat=#%d", v.ClassIndex, v.NameAndTypeIndex)
	case *classfile.ConstNameAndType:
		name, _ := pool.Utf8(v.NameIndex)
		desc, _ := pool.Utf8(v.DescriptorIndex)
		return fmt.Sprintf("NameType %s:%s", name, desc)
	case *classfile.ConstMethodHandle:
		return fmt.Sprintf("Handle   kind=%d ref=#%d", v.Kind, v.RefIndex)
	case *classfile.ConstInvokeDynamic:
		return fmt.Sprintf("InDy     bsm=#%d nat=#%d", v.BootstrapIndex, v.NameAndTypeIndex)
	default:
		return fmt.Sprintf("tag=%d", c.Tag())
	}
}
