package wl

// Interface names of the globals that this package can bind.
const (
	CompositorInterface = "wl_compositor"
	ShmInterface        = "wl_shm"
	OutputInterface     = "wl_output"
)

var (
	displayProtocol = Protocol{
		Name:     "wl_display",
		Requests: []string{"sync", "get_registry"},
		Events:   []string{"error", "delete_id"},
	}
	registryProtocol = Protocol{
		Name:     "wl_registry",
		Requests: []string{"bind"},
		Events:   []string{"global", "global_remove"},
	}
	callbackProtocol = Protocol{
		Name:   "wl_callback",
		Events: []string{"done"},
	}
	compositorProtocol = Protocol{
		Name:     CompositorInterface,
		Requests: []string{"create_surface", "create_region"},
	}
	surfaceProtocol = Protocol{
		Name: "wl_surface",
		Requests: []string{
			"destroy", "attach", "damage", "frame", "set_opaque_region",
			"set_input_region", "commit", "set_buffer_transform",
			"set_buffer_scale", "damage_buffer", "offset",
		},
		Events: []string{"enter", "leave", "preferred_buffer_scale", "preferred_buffer_transform"},
	}
	regionProtocol = Protocol{
		Name:     "wl_region",
		Requests: []string{"destroy", "add", "subtract"},
	}
	shmProtocol = Protocol{
		Name:     ShmInterface,
		Requests: []string{"create_pool", "release"},
		Events:   []string{"format"},
	}
	shmPoolProtocol = Protocol{
		Name:     "wl_shm_pool",
		Requests: []string{"create_buffer", "destroy", "resize"},
	}
	bufferProtocol = Protocol{
		Name:     "wl_buffer",
		Requests: []string{"destroy"},
		Events:   []string{"release"},
	}
	outputProtocol = Protocol{
		Name:     OutputInterface,
		Requests: []string{"release"},
		Events:   []string{"geometry", "mode", "done", "scale", "name", "description"},
	}
)

const (
	displaySync        = 0
	displayGetRegistry = 1

	displayError    = 0
	displayDeleteID = 1
)

const (
	registryBind = 0

	registryGlobal       = 0
	registryGlobalRemove = 1
)

const callbackDone = 0

const (
	compositorCreateSurface = 0
	compositorCreateRegion  = 1
)

const (
	surfaceDestroy         = 0
	surfaceAttach          = 1
	surfaceSetOpaqueRegion = 4
	surfaceSetInputRegion  = 5
	surfaceCommit          = 6
	surfaceDamageBuffer    = 9

	surfaceEnter = 0
	surfaceLeave = 1
)

const (
	regionDestroy = 0
	regionAdd     = 1
)

const (
	shmCreatePool = 0
	shmRelease    = 1

	shmFormat = 0
)

const (
	shmPoolCreateBuffer = 0
	shmPoolDestroy      = 1
)

const (
	bufferDestroy = 0

	bufferRelease = 0
)

const (
	outputRelease = 0

	outputGeometry    = 0
	outputMode        = 1
	outputDone        = 2
	outputScale       = 3
	outputName        = 4
	outputDescription = 5
)
