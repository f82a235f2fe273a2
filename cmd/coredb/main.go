// Command coredb is a small interactive shell over the engine: it issues no
// SQL and parses no relational algebra, only a fixed set of commands that
// drive the operator tree directly (create/scan/insert/delete/filter/join/
// agg), the way a database's own meta-commands (not its query language) sit
// alongside the real front-end.
package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	coredb "github.com/madden-labs/coredb"
)

func main() {
	capacity := flag.Int("capacity", coredb.DefaultPages, "buffer pool capacity, in pages")
	flag.Parse()

	db := coredb.Reset(*capacity)
	sh := &shell{db: db, tid: coredb.NewTID()}

	rl, err := readline.New("coredb> ")
	if err != nil {
		fmt.Println("coredb:", err)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Println("coredb:", err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return
		}
		if err := sh.dispatch(line); err != nil {
			fmt.Println("error:", err)
		}
	}
}

type shell struct {
	db  *coredb.Database
	tid coredb.TransactionID
}

func (s *shell) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "create":
		return s.create(args)
	case "insert":
		return s.insert(args)
	case "scan":
		return s.scan(args)
	case "filter":
		return s.filter(args)
	case "delete":
		return s.deleteWhere(args)
	case "join":
		return s.join(args)
	case "agg":
		return s.agg(args)
	default:
		return fmt.Errorf("unknown command %q (try create, insert, scan, filter, delete, join, agg, quit)", cmd)
	}
}

// create <table> <path> <field:type>...  -- e.g. create people ./people.dat id:int name:string
func (s *shell) create(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: create <table> <path> <field:type>...")
	}
	table, path, specs := args[0], args[1], args[2:]

	var types []coredb.DBFieldType
	var names []string
	for _, spec := range specs {
		parts := strings.SplitN(spec, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("bad field spec %q, want name:type", spec)
		}
		names = append(names, parts[0])
		switch parts[1] {
		case "int":
			types = append(types, coredb.IntType)
		case "string":
			types = append(types, coredb.StringType)
		default:
			return fmt.Errorf("unknown field type %q", parts[1])
		}
	}

	desc := coredb.NewTupleDesc(types, names)
	file, err := coredb.NewHeapFile(path, desc, s.db.BufferPool())
	if err != nil {
		return err
	}
	s.db.Catalog().AddTable(file, table, "")
	fmt.Printf("created table %q (id %d) backed by %s\n", table, file.ID(), path)
	return nil
}

func (s *shell) scanOp(table string) (*coredb.SeqScan, error) {
	id, err := s.db.Catalog().GetTableID(table)
	if err != nil {
		return nil, err
	}
	return coredb.NewSeqScan(id, s.db.Catalog()), nil
}

// insert <table> <field>...
func (s *shell) insert(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: insert <table> <field>...")
	}
	table := args[0]
	id, err := s.db.Catalog().GetTableID(table)
	if err != nil {
		return err
	}
	file, err := s.db.Catalog().GetDBFile(id)
	if err != nil {
		return err
	}
	desc := file.Descriptor()
	if len(args)-1 != len(desc.Fields) {
		return fmt.Errorf("table %q has %d fields, got %d values", table, len(desc.Fields), len(args)-1)
	}

	values := make([]coredb.DBValue, len(desc.Fields))
	for i, raw := range args[1:] {
		switch desc.Fields[i].Ftype {
		case coredb.IntType:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("field %d: %v", i, err)
			}
			values[i] = coredb.IntField{Value: n}
		case coredb.StringType:
			values[i] = coredb.StringField{Value: raw}
		}
	}
	t, err := coredb.NewTuple(*desc, values)
	if err != nil {
		return err
	}
	if err := s.db.BufferPool().InsertTuple(s.tid, id, t); err != nil {
		return err
	}
	return s.db.BufferPool().FlushAllPages()
}

// scan <table>
func (s *shell) scan(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: scan <table>")
	}
	op, err := s.scanOp(args[0])
	if err != nil {
		return err
	}
	return s.drain(op)
}

// filter <table> <fieldIndex> <op> <value>
func (s *shell) filter(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: filter <table> <fieldIndex> <op> <value>")
	}
	scan, err := s.scanOp(args[0])
	if err != nil {
		return err
	}
	idx, op, val, err := parsePredicateArgs(scan.Descriptor(), args[1], args[2], args[3])
	if err != nil {
		return err
	}
	f := coredb.NewFilter(coredb.NewPredicate(idx, op, val), scan)
	return s.drain(f)
}

// delete <table> <fieldIndex> <op> <value>
func (s *shell) deleteWhere(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: delete <table> <fieldIndex> <op> <value>")
	}
	scan, err := s.scanOp(args[0])
	if err != nil {
		return err
	}
	idx, op, val, err := parsePredicateArgs(scan.Descriptor(), args[1], args[2], args[3])
	if err != nil {
		return err
	}
	f := coredb.NewFilter(coredb.NewPredicate(idx, op, val), scan)
	del := coredb.NewDelete(s.db.BufferPool(), f)
	if err := s.drain(del); err != nil {
		return err
	}
	return s.db.BufferPool().FlushAllPages()
}

// join <tableA> <idxA> <tableB> <idxB>
func (s *shell) join(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: join <tableA> <idxA> <tableB> <idxB>")
	}
	left, err := s.scanOp(args[0])
	if err != nil {
		return err
	}
	right, err := s.scanOp(args[2])
	if err != nil {
		return err
	}
	li, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	ri, err := strconv.Atoi(args[3])
	if err != nil {
		return err
	}
	j := coredb.NewJoin(coredb.NewJoinPredicate(li, coredb.OpEquals, ri), left, right)
	return s.drain(j)
}

// agg <table> <groupIndex|none> <aggIndex> <op>
func (s *shell) agg(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: agg <table> <groupIndex|none> <aggIndex> <op>")
	}
	scan, err := s.scanOp(args[0])
	if err != nil {
		return err
	}
	desc := scan.Descriptor()

	groupIdx := coredb.NoGrouping
	var groupType coredb.DBFieldType
	if args[1] != "none" {
		groupIdx, err = strconv.Atoi(args[1])
		if err != nil {
			return err
		}
		groupType = desc.Fields[groupIdx].Ftype
	}
	aggIdx, err := strconv.Atoi(args[2])
	if err != nil {
		return err
	}
	op, err := parseAggOp(args[3])
	if err != nil {
		return err
	}

	var aggOp *coredb.Aggregate
	if desc.Fields[aggIdx].Ftype == coredb.StringType {
		aggOp, err = coredb.NewStringAggregator(groupIdx, groupType, aggIdx, op, scan)
	} else {
		aggOp, err = coredb.NewIntAggregator(groupIdx, groupType, aggIdx, op, scan)
	}
	if err != nil {
		return err
	}
	return s.drain(aggOp)
}

func (s *shell) drain(op coredb.OpIterator) error {
	if err := op.Open(s.tid); err != nil {
		return err
	}
	defer op.Close()
	for {
		ok, err := op.HasNext()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		t, err := op.Next()
		if err != nil {
			return err
		}
		fmt.Println(formatTuple(t))
	}
}

func formatTuple(t *coredb.Tuple) string {
	var b strings.Builder
	b.WriteString("(")
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		switch v := f.(type) {
		case coredb.IntField:
			fmt.Fprintf(&b, "%d", v.Value)
		case coredb.StringField:
			fmt.Fprintf(&b, "%q", v.Value)
		}
	}
	b.WriteString(")")
	return b.String()
}

func parsePredicateArgs(desc *coredb.TupleDesc, idxStr, opStr, valStr string) (int, coredb.BoolOp, coredb.DBValue, error) {
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return 0, 0, nil, err
	}
	if idx < 0 || idx >= len(desc.Fields) {
		return 0, 0, nil, fmt.Errorf("field index %d out of range", idx)
	}
	op, err := parseBoolOp(opStr)
	if err != nil {
		return 0, 0, nil, err
	}
	var val coredb.DBValue
	switch desc.Fields[idx].Ftype {
	case coredb.IntType:
		n, err := strconv.ParseInt(valStr, 10, 64)
		if err != nil {
			return 0, 0, nil, err
		}
		val = coredb.IntField{Value: n}
	case coredb.StringType:
		val = coredb.StringField{Value: valStr}
	}
	return idx, op, val, nil
}

func parseBoolOp(s string) (coredb.BoolOp, error) {
	switch s {
	case "=":
		return coredb.OpEquals, nil
	case "<>", "!=":
		return coredb.OpNotEquals, nil
	case "<":
		return coredb.OpLessThan, nil
	case "<=":
		return coredb.OpLessThanOrEqual, nil
	case ">":
		return coredb.OpGreaterThan, nil
	case ">=":
		return coredb.OpGreaterThanOrEqual, nil
	case "like":
		return coredb.OpLike, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}

func parseAggOp(s string) (coredb.AggOp, error) {
	switch strings.ToLower(s) {
	case "min":
		return coredb.AggMin, nil
	case "max":
		return coredb.AggMax, nil
	case "sum":
		return coredb.AggSum, nil
	case "count":
		return coredb.AggCount, nil
	case "avg":
		return coredb.AggAvg, nil
	default:
		return 0, fmt.Errorf("unknown aggregate op %q", s)
	}
}
