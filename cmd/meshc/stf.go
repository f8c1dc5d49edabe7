package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/malphas-lang/internal/stf"
)

// jsonType and jsonValue mirror stf.Type/stf.Value as a JSON document,
// for ad hoc wire-format inspection from the command line. Shapes only
// as much structure as the CLI needs — nested container types compose
// the same way the wire format does.
type jsonType struct {
	Kind     string      `json:"kind"`
	Elem     *jsonType   `json:"elem,omitempty"`
	Key      *jsonType   `json:"key,omitempty"`
	Val      *jsonType   `json:"val,omitempty"`
	Ok       *jsonType   `json:"ok,omitempty"`
	Err      *jsonType   `json:"err,omitempty"`
	Elems    []jsonType  `json:"elems,omitempty"`
	Name     string      `json:"name,omitempty"`
	Fields   []jsonField `json:"fields,omitempty"`
	Variants []jsonVar   `json:"variants,omitempty"`
}

type jsonField struct {
	Name string   `json:"name"`
	Type jsonType `json:"type"`
}

type jsonVar struct {
	Name   string     `json:"name"`
	Fields []jsonType `json:"fields,omitempty"`
}

type jsonValue struct {
	Kind       string       `json:"kind"`
	Int        *int64       `json:"int,omitempty"`
	Float      *float64     `json:"float,omitempty"`
	Bool       *bool        `json:"bool,omitempty"`
	String     *string      `json:"string,omitempty"`
	PidRaw     *uint64      `json:"pid_raw,omitempty"`
	List       []jsonValue  `json:"list,omitempty"`
	Set        []jsonValue  `json:"set,omitempty"`
	Tuple      []jsonValue  `json:"tuple,omitempty"`
	MapKeyTag  *byte        `json:"map_key_tag,omitempty"`
	Map        []jsonEntry  `json:"map,omitempty"`
	StructName string       `json:"struct_name,omitempty"`
	Struct     []jsonField2 `json:"struct,omitempty"`
	SumName    string       `json:"sum_name,omitempty"`
	SumTag     *uint8       `json:"sum_tag,omitempty"`
	Sum        []jsonValue  `json:"sum,omitempty"`
	OptionSome *bool        `json:"option_some,omitempty"`
	Inner      *jsonValue   `json:"inner,omitempty"`
	ResultOk   *bool        `json:"result_ok,omitempty"`
}

type jsonEntry struct {
	Key jsonValue `json:"key"`
	Val jsonValue `json:"val"`
}

type jsonField2 struct {
	Name string    `json:"name"`
	Val  jsonValue `json:"val"`
}

type valueDoc struct {
	Type  jsonType  `json:"type"`
	Value jsonValue `json:"value"`
}

func toSTFType(t jsonType) stf.Type {
	switch t.Kind {
	case "int":
		return stf.IntType()
	case "float":
		return stf.FloatType()
	case "bool":
		return stf.BoolType()
	case "string":
		return stf.StringType()
	case "unit":
		return stf.UnitType()
	case "pid":
		return stf.PidType()
	case "list":
		return stf.ListOf(toSTFType(*t.Elem))
	case "set":
		return stf.SetOf(toSTFType(*t.Elem))
	case "map":
		return stf.MapOf(toSTFType(*t.Key), toSTFType(*t.Val))
	case "tuple":
		elems := make([]stf.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = toSTFType(e)
		}
		return stf.TupleOf(elems...)
	case "option":
		return stf.OptionOf(toSTFType(*t.Elem))
	case "result":
		return stf.ResultOf(toSTFType(*t.Ok), toSTFType(*t.Err))
	case "struct":
		fields := make([]stf.FieldType, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = stf.FieldType{Name: f.Name, Type: toSTFType(f.Type)}
		}
		return stf.StructOf(t.Name, fields)
	case "sum":
		variants := make([]stf.Variant, len(t.Variants))
		for i, v := range t.Variants {
			fields := make([]stf.Type, len(v.Fields))
			for j, f := range v.Fields {
				fields[j] = toSTFType(f)
			}
			variants[i] = stf.Variant{Name: v.Name, Fields: fields}
		}
		return stf.SumTypeOf(t.Name, variants)
	case "closure":
		return stf.ClosureType()
	case "fnptr":
		return stf.FnPtrType()
	default:
		return stf.UnitType()
	}
}

func toSTFValue(v jsonValue) stf.Value {
	switch v.Kind {
	case "int":
		return stf.Int(*v.Int)
	case "float":
		return stf.Float(*v.Float)
	case "bool":
		return stf.Bool(*v.Bool)
	case "string":
		return stf.Str(*v.String)
	case "unit":
		return stf.Unit()
	case "pid":
		return stf.PidValue(stf.PID{Raw: *v.PidRaw})
	case "list":
		elems := make([]stf.Value, len(v.List))
		for i, e := range v.List {
			elems[i] = toSTFValue(e)
		}
		return stf.ListValue(elems)
	case "set":
		elems := make([]stf.Value, len(v.Set))
		for i, e := range v.Set {
			elems[i] = toSTFValue(e)
		}
		return stf.SetValue(elems)
	case "tuple":
		elems := make([]stf.Value, len(v.Tuple))
		for i, e := range v.Tuple {
			elems[i] = toSTFValue(e)
		}
		return stf.TupleValue(elems)
	case "map":
		entries := make([]stf.MapEntry, len(v.Map))
		for i, e := range v.Map {
			entries[i] = stf.MapEntry{Key: toSTFValue(e.Key), Val: toSTFValue(e.Val)}
		}
		keyTag := byte(0)
		if v.MapKeyTag != nil {
			keyTag = *v.MapKeyTag
		}
		return stf.MapValue(keyTag, entries)
	case "struct":
		fields := make([]stf.Field, len(v.Struct))
		for i, f := range v.Struct {
			fields[i] = stf.Field{Name: f.Name, Val: toSTFValue(f.Val)}
		}
		return stf.StructValue(v.StructName, fields)
	case "sum":
		fields := make([]stf.Value, len(v.Sum))
		for i, f := range v.Sum {
			fields[i] = toSTFValue(f)
		}
		tag := uint8(0)
		if v.SumTag != nil {
			tag = *v.SumTag
		}
		return stf.SumValue(v.SumName, tag, fields)
	case "option":
		if v.OptionSome != nil && *v.OptionSome && v.Inner != nil {
			return stf.Some(toSTFValue(*v.Inner))
		}
		return stf.None()
	case "result":
		if v.ResultOk != nil && *v.ResultOk && v.Inner != nil {
			return stf.Ok(toSTFValue(*v.Inner))
		}
		if v.Inner != nil {
			return stf.Err(toSTFValue(*v.Inner))
		}
		return stf.Err(stf.Unit())
	default:
		return stf.Unit()
	}
}

func newSTFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stf",
		Short: "Inspect the STF wire codec from the command line",
	}
	cmd.AddCommand(newSTFEncodeCmd(), newSTFDecodeCmd())
	return cmd
}

func newSTFEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <value.json>",
		Short: "Encode a JSON-described value to STF bytes (base64 on stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var doc valueDoc
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}
			encoded, err := stf.EncodeValue(toSTFValue(doc.Value), toSTFType(doc.Type))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(encoded))
			return nil
		},
	}
}

func newSTFDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <base64>",
		Short: "Decode a base64 STF payload and print its reconstructed type and value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := base64.StdEncoding.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("invalid base64 input: %w", err)
			}
			value, ty, err := stf.DecodeValue(raw)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "type: %+v\nvalue: %+v\n", ty, value)
			return nil
		},
	}
}
