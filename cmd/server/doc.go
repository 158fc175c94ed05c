// Package main implements the mudforge server, a telnet-native multi-user
// text adventure.
//
// # Architecture
//
// The server is a plain TCP listener, not an HTTP/WebSocket stack: a
// connection is accepted, negotiated into a telnet.Conn, and wrapped in a
// session.Session that owns the login state machine (username, password,
// character creation) and, once playing, routes every inbound line into a
// shared command.Pipeline. The pipeline resolves arguments against a
// shared world.World and board.Registry, enqueues matched actions on the
// acting mob's own queue, and narrates results back out through
// narrate.Act. A background scheduler.Scheduler drives regeneration,
// combat, and shop restock on independent ticks, and a small ops.Server
// exposes /healthz and /metrics on its own port for operators.
//
// # Startup sequence
//
// 1. Load configuration from MUD_* environment variables (pkg/config).
// 2. Configure logging verbosity.
// 3. Construct the shared registries (pkg/registry, pkg/board) and load
//    world content — dungeons, races, jobs, abilities, helpfiles, and
//    boards — from YAML files under the data directory, behind a boot
//    lockfile that refuses two server processes writing the same
//    directory concurrently.
// 4. Build the live world.World from the loaded dungeons, the account
//    store, the command pipeline, and the scheduler.
// 5. Start the scheduler's tick loops and the ops side channel.
// 6. Bind the telnet listener and begin accepting connections.
// 7. Block until SIGINT or SIGTERM, then shut down gracefully.
//
// # Environment variables
//
// See pkg/config for the full list of MUD_* variables; the important ones
// are MUD_PORT (telnet bind port), MUD_DATA_DIR (world/account/board
// storage root), MUD_LOG_LEVEL, and MUD_METRICS_PORT.
//
// # Graceful shutdown
//
// On SIGINT/SIGTERM the server warns every connected session, waits out a
// short grace period, stops the scheduler, closes the telnet listener,
// shuts down the ops server, and persists any board with unsaved
// messages. Character state is saved as each session disconnects rather
// than batched at shutdown, so a crash mid-shutdown loses at most the
// sessions still draining their final lines.
package main
