// Package server exposes editor sessions over HTTP for graphical front ends.
//
// Each session owns one [editor.Editor] and is addressed by a UUID. A front
// end creates a session, then drives it with the same vocabulary as the
// editor API: fetch a snapshot, mutate by snapshot id, fetch again.
//
// # Routes
//
//	GET    /healthz
//	GET    /api/v1/version
//	POST   /api/v1/sessions                         create
//	GET    /api/v1/sessions                         list ids
//	DELETE /api/v1/sessions/{sid}
//	GET    /api/v1/sessions/{sid}/graph             snapshot (renumbers ids)
//	POST   /api/v1/sessions/{sid}/modules           {"name"}
//	GET    /api/v1/sessions/{sid}/modules/stable/{stable}  snapshot id of a stable id
//	DELETE /api/v1/sessions/{sid}/modules/{id}
//	PUT    /api/v1/sessions/{sid}/modules/{id}/position   {"x","y"}
//	GET    /api/v1/sessions/{sid}/modules/{id}/block      module as a library block
//	POST   /api/v1/sessions/{sid}/modules/{id}/pins       {"name","kind","direction"}
//	DELETE /api/v1/sessions/{sid}/pins/{id}
//	POST   /api/v1/sessions/{sid}/wires             {"a","b"}
//	POST   /api/v1/sessions/{sid}/wires/disconnect  {"a","b"}
//	DELETE /api/v1/sessions/{sid}/wires/{id}
//	POST   /api/v1/sessions/{sid}/blocks            {"block"|"name","x","y"}
//	GET    /api/v1/sessions/{sid}/design
//	PUT    /api/v1/sessions/{sid}/design            replace the netlist
//	POST   /api/v1/sessions/{sid}/design            merge into the netlist
//	DELETE /api/v1/sessions/{sid}/design            clear
//	GET    /api/v1/sessions/{sid}/render.svg        ?detailed=1&pinned=1
//	GET    /api/v1/sessions/{sid}/render.dot
//	GET    /api/v1/library                          stored block names
//	GET    /api/v1/library/{name}
//	PUT    /api/v1/library/{name}
//	DELETE /api/v1/library/{name}
//	GET    /api/v1/designs                          stored design names
//	GET    /api/v1/designs/{name}
//	PUT    /api/v1/designs/{name}
//	DELETE /api/v1/designs/{name}
//
// Failures are answered with {"error": "...", "code": "BAD_INDEX"} and the
// status from [errors.HTTPStatus].
package server
