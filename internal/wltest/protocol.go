package wltest

type method struct {
	name       string
	signature  string
	creates    string
	destructor bool
}

func req(name, signature string) method {
	return method{name: name, signature: signature}
}

func ctor(name, signature, creates string) method {
	return method{name: name, signature: signature, creates: creates}
}

func dtor(name string) method {
	return method{name: name, destructor: true}
}

// requests holds the signatures of every request that the fake
// compositor understands, in opcode order. Signatures use the letters
// of the protocol XML's argument types: i int, u uint, f fixed, s
// string, o object, n new_id, a array, h fd. A leading ? marks a
// nullable argument.
var requests = map[string][]method{
	"wl_display": {
		ctor("sync", "n", "wl_callback"),
		ctor("get_registry", "n", "wl_registry"),
	},
	"wl_registry": {
		req("bind", "usun"),
	},
	"wl_callback": {},
	"wl_compositor": {
		ctor("create_surface", "n", "wl_surface"),
		ctor("create_region", "n", "wl_region"),
	},
	"wl_surface": {
		dtor("destroy"),
		req("attach", "?oii"),
		req("damage", "iiii"),
		ctor("frame", "n", "wl_callback"),
		req("set_opaque_region", "?o"),
		req("set_input_region", "?o"),
		req("commit", ""),
		req("set_buffer_transform", "i"),
		req("set_buffer_scale", "i"),
		req("damage_buffer", "iiii"),
	},
	"wl_region": {
		dtor("destroy"),
		req("add", "iiii"),
		req("subtract", "iiii"),
	},
	"wl_shm": {
		ctor("create_pool", "nhi", "wl_shm_pool"),
		dtor("release"),
	},
	"wl_shm_pool": {
		ctor("create_buffer", "niiiiu", "wl_buffer"),
		dtor("destroy"),
		req("resize", "i"),
	},
	"wl_buffer": {
		dtor("destroy"),
	},
	"wl_output": {
		dtor("release"),
	},
	"zwlr_layer_shell_v1": {
		ctor("get_layer_surface", "no?ous", "zwlr_layer_surface_v1"),
		dtor("destroy"),
	},
	"zwlr_layer_surface_v1": {
		req("set_size", "uu"),
		req("set_anchor", "u"),
		req("set_exclusive_zone", "i"),
		req("set_margin", "iiii"),
		req("set_keyboard_interactivity", "u"),
		req("get_popup", "o"),
		req("ack_configure", "u"),
		dtor("destroy"),
		req("set_layer", "u"),
	},
}
