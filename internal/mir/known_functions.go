package mir

import "github.com/malphas-lang/malphas-lang/internal/mirtypes"

// defaultKnownFunctions seeds the known-function table (§4.3) with the
// runtime primitives the backend provides: I/O, strings, collections,
// JSON, HTTP, SQL, WebSocket, timers, distribution, and iterators. The
// table is intentionally representative rather than exhaustive — new
// primitives are added here as the backend grows them.
func defaultKnownFunctions() map[string]KnownFunc {
	str := mirtypes.NewString()
	i := mirtypes.NewInt()
	f := mirtypes.NewFloat()
	b := mirtypes.NewBool()
	u := mirtypes.NewUnit()
	p := mirtypes.NewPtr()
	pid := mirtypes.NewPid()

	return map[string]KnownFunc{
		// I/O
		"mesh_io_print":   {Params: []mirtypes.Type{str}, Result: u},
		"mesh_io_println": {Params: []mirtypes.Type{str}, Result: u},
		"mesh_io_read_line": {Params: nil, Result: str},

		// Strings
		"mesh_string_concat":  {Params: []mirtypes.Type{str, str}, Result: str},
		"mesh_string_length":  {Params: []mirtypes.Type{str}, Result: i},
		"mesh_string_to_upper": {Params: []mirtypes.Type{str}, Result: str},
		"mesh_string_to_lower": {Params: []mirtypes.Type{str}, Result: str},
		"mesh_string_split":   {Params: []mirtypes.Type{str, str}, Result: p},

		// Primitive stringifiers
		"mesh_int_to_string":   {Params: []mirtypes.Type{i}, Result: str},
		"mesh_float_to_string": {Params: []mirtypes.Type{f}, Result: str},
		"mesh_bool_to_string":  {Params: []mirtypes.Type{b}, Result: str},

		// Collections
		"mesh_list_new":          {Params: nil, Result: p},
		"mesh_list_from_array":   {Params: []mirtypes.Type{p, i}, Result: p},
		"mesh_list_to_string":    {Params: []mirtypes.Type{p, p}, Result: str},
		"mesh_map_new_typed":     {Params: []mirtypes.Type{i}, Result: p},
		"mesh_map_tag_string":    {Params: []mirtypes.Type{p}, Result: p},
		"mesh_map_insert":        {Params: []mirtypes.Type{p, p, p}, Result: p},
		"mesh_set_new":           {Params: nil, Result: p},
		"mesh_set_add":           {Params: []mirtypes.Type{p, p}, Result: p},
		"mesh_map_to_string":     {Params: []mirtypes.Type{p, p, p}, Result: str},
		"mesh_set_to_string":     {Params: []mirtypes.Type{p, p}, Result: str},
		"mesh_list_equals":       {Params: []mirtypes.Type{p, p, p}, Result: b},
		"mesh_set_equals":        {Params: []mirtypes.Type{p, p, p}, Result: b},
		"mesh_map_equals":        {Params: []mirtypes.Type{p, p, p}, Result: b},

		// Hashing / comparison helpers
		"mesh_hash_combine": {Params: []mirtypes.Type{i, i}, Result: i},
		"mesh_hash_int":     {Params: []mirtypes.Type{i}, Result: i},
		"mesh_hash_float":   {Params: []mirtypes.Type{f}, Result: i},
		"mesh_hash_bool":    {Params: []mirtypes.Type{b}, Result: i},
		"mesh_hash_string":  {Params: []mirtypes.Type{str}, Result: i},

		// JSON
		"mesh_json_object_new":   {Params: nil, Result: p},
		"mesh_json_object_put":   {Params: []mirtypes.Type{p, str, p}, Result: u},
		"mesh_json_object_get":   {Params: []mirtypes.Type{p, str}, Result: p},
		"mesh_json_object_has":   {Params: []mirtypes.Type{p, str}, Result: b},
		"mesh_json_as_int":       {Params: []mirtypes.Type{p}, Result: p},
		"mesh_json_as_float":     {Params: []mirtypes.Type{p}, Result: p},
		"mesh_json_as_bool":      {Params: []mirtypes.Type{p}, Result: p},
		"mesh_json_as_string":    {Params: []mirtypes.Type{p}, Result: p},
		"mesh_json_of_int":       {Params: []mirtypes.Type{i}, Result: p},
		"mesh_json_of_float":     {Params: []mirtypes.Type{f}, Result: p},
		"mesh_json_of_bool":      {Params: []mirtypes.Type{b}, Result: p},
		"mesh_json_of_string":    {Params: []mirtypes.Type{str}, Result: p},
		"mesh_json_from_list":    {Params: []mirtypes.Type{p, p}, Result: p},
		"mesh_json_to_map":       {Params: []mirtypes.Type{p, p}, Result: p},
		"mesh_json_parse":        {Params: []mirtypes.Type{str}, Result: p},

		// Row / SQL
		"mesh_row_get_string":  {Params: []mirtypes.Type{p, str}, Result: str},
		"mesh_row_parse_int":   {Params: []mirtypes.Type{str}, Result: p},
		"mesh_row_parse_float": {Params: []mirtypes.Type{str}, Result: p},
		"mesh_row_parse_bool":  {Params: []mirtypes.Type{str}, Result: p},
		"mesh_sql_query":       {Params: []mirtypes.Type{p, str}, Result: p},

		// Timers / distribution / actors
		"mesh_timer_after":       {Params: []mirtypes.Type{i}, Result: u},
		"mesh_actor_send":        {Params: []mirtypes.Type{pid, p}, Result: u},
		"mesh_service_call":      {Params: []mirtypes.Type{str, i}, Result: p},
		"mesh_service_cast":      {Params: []mirtypes.Type{str, i}, Result: u},
		"mesh_service_spawn":     {Params: []mirtypes.Type{str, p, p}, Result: pid},
		"mesh_service_run_loop":  {Params: []mirtypes.Type{p, str}, Result: u},

		// WebSocket / HTTP
		"mesh_http_get":        {Params: []mirtypes.Type{str}, Result: p},
		"mesh_ws_send":         {Params: []mirtypes.Type{p, str}, Result: u},

		// Iterators
		"mesh_iter_has_next": {Params: []mirtypes.Type{p}, Result: b},
		"mesh_iter_next":     {Params: []mirtypes.Type{p}, Result: p},

		// Tuple construction (backend expands inline; see spec §4.3)
		"__mesh_make_tuple": {Params: nil, Result: p},

		// Sum-type tag introspection, used by derived Ord (§4.4)
		"__mesh_variant_tag": {Params: []mirtypes.Type{p}, Result: i},
	}
}
