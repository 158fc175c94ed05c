package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"mudforge/pkg/account"
	"mudforge/pkg/board"
	"mudforge/pkg/builtin"
	"mudforge/pkg/command"
	"mudforge/pkg/config"
	"mudforge/pkg/content"
	"mudforge/pkg/narrate"
	"mudforge/pkg/ops"
	"mudforge/pkg/registry"
	"mudforge/pkg/scheduler"
	"mudforge/pkg/session"
	"mudforge/pkg/telnet"
	"mudforge/pkg/validation"
	"mudforge/pkg/world"
)

// exit codes, per the server's shutdown discipline: a normal exit, an
// operator-issued in-game shutdown, and everything else.
const (
	exitNormal     = 0
	exitGameReason = 2
	exitFailure    = 1
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "mudforge: loading configuration:", err)
		os.Exit(exitFailure)
	}
	configureLogging(cfg)

	srv, err := newServer(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize server")
	}
	os.Exit(srv.run())
}

func configureLogging(cfg *config.Config) {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// server bundles every long-lived subsystem wired up at boot: the shared
// world and registries, persistence stores, the command pipeline, and the
// two listeners (telnet and the ops side channel).
type server struct {
	cfg *config.Config

	world *world.World
	reg   *registry.World

	boards   *board.Registry
	accounts *account.Store

	pipeline  *command.Pipeline
	scheduler *scheduler.Scheduler

	metrics *ops.Metrics
	health  *ops.HealthChecker
	opsSrv  *ops.Server

	telnetLn *telnet.Listener

	sessions *sessionRegistry
}

func newServer(cfg *config.Config) (*server, error) {
	reg := registry.NewWorld()
	boards, err := board.NewRegistry(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("mudforge: constructing board registry: %w", err)
	}

	if err := loadContent(cfg, reg, boards); err != nil {
		return nil, fmt.Errorf("mudforge: loading world content: %w", err)
	}

	w := world.NewWorld()
	for _, d := range reg.Dungeons.All() {
		if err := w.AddDungeon(d); err != nil {
			return nil, fmt.Errorf("mudforge: registering dungeon %s: %w", d.ID, err)
		}
	}

	accounts, err := account.NewStore(cfg.DataDir, reg.ArchetypeResolver())
	if err != nil {
		return nil, fmt.Errorf("mudforge: constructing account store: %w", err)
	}

	pipeline := command.NewPipeline()
	builtin.Register(pipeline, builtin.Deps{World: w, Reg: reg, Boards: boards})

	calendar := scheduler.Calendar{
		HoursPerDay:   cfg.HoursPerDay,
		DaysPerWeek:   cfg.DaysPerWeek,
		MonthsPerYear: cfg.MonthsPerYear,
	}
	sched := scheduler.New(w, calendar, cfg.RegenTickInterval, cfg.CombatTickInterval, cfg.RestockTickInterval)

	metrics := ops.NewMetrics()
	health := ops.NewHealthChecker()
	health.Register("world", func(context.Context) error {
		if w == nil {
			return fmt.Errorf("world not initialized")
		}
		return nil
	})

	telnetLn, err := telnet.Listen(fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort), cfg.OptionNegotiationTimeout)
	if err != nil {
		return nil, fmt.Errorf("mudforge: binding telnet listener: %w", err)
	}

	s := &server{
		cfg:       cfg,
		world:     w,
		reg:       reg,
		boards:    boards,
		accounts:  accounts,
		pipeline:  pipeline,
		scheduler: sched,
		metrics:   metrics,
		health:    health,
		telnetLn:  telnetLn,
		sessions:  newSessionRegistry(),
	}
	sched.SetDeliver(s.sessions.deliver)
	s.opsSrv = ops.NewServer(ops.AddrFor(cfg.MetricsPort), metrics, health)
	return s, nil
}

// loadContent registers every boot module with a registry.Loader so data
// loads in dependency order behind the boot lockfile, then hydrates reg
// and boards from what each module loaded.
func loadContent(cfg *config.Config, reg *registry.World, boards *board.Registry) error {
	loader, err := registry.NewLoader(cfg.DataDir)
	if err != nil {
		return err
	}
	if err := loader.Lock(); err != nil {
		return err
	}
	defer loader.Close()

	var dungeons []*world.Dungeon
	var races, jobs []*world.Archetype
	var abilities []*world.Ability
	var helpfiles []*registry.Helpfile

	loader.Register(registry.Module{Name: "abilities", Load: func() error {
		var err error
		abilities, err = content.LoadAbilities(cfg.DataDir)
		return err
	}})
	loader.Register(registry.Module{Name: "races", Load: func() error {
		var err error
		races, err = content.LoadArchetypes(cfg.DataDir, "races")
		return err
	}})
	loader.Register(registry.Module{Name: "jobs", Load: func() error {
		var err error
		jobs, err = content.LoadArchetypes(cfg.DataDir, "jobs")
		return err
	}})
	loader.Register(registry.Module{Name: "dungeons", DependsOn: []string{"races", "jobs"}, Load: func() error {
		var err error
		dungeons, err = content.LoadDungeons(cfg.DataDir)
		return err
	}})
	loader.Register(registry.Module{Name: "helpfiles", Load: func() error {
		var err error
		helpfiles, err = content.LoadHelpfiles(cfg.DataDir)
		return err
	}})
	loader.Register(registry.Module{Name: "boards", Load: boards.Load})

	if err := loader.Run(); err != nil {
		return err
	}

	for _, a := range abilities {
		if err := reg.Abilities.Register(a.ID, a); err != nil {
			return err
		}
	}
	for _, r := range races {
		if err := reg.Races.Register(r.ID, r); err != nil {
			return err
		}
	}
	for _, j := range jobs {
		if err := reg.Jobs.Register(j.ID, j); err != nil {
			return err
		}
	}
	for _, d := range dungeons {
		if err := reg.Dungeons.Register(d.ID, d); err != nil {
			return err
		}
	}
	for _, hf := range helpfiles {
		reg.Helpfiles.Add(hf)
	}
	return nil
}

// run starts every background subsystem, serves connections until a
// shutdown signal arrives, and tears everything down in reverse order,
// returning the process exit code.
func (s *server) run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.scheduler.Start(ctx)
	if addr := ops.AddrFor(s.cfg.MetricsPort); addr != "" {
		if err := s.opsSrv.Start(); err != nil {
			logrus.WithError(err).Error("ops server failed to start, continuing without it")
		}
	}

	go func() {
		if err := s.telnetLn.Serve(s.handleConnection); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "run",
				"error":    err,
			}).Info("telnet listener stopped accepting connections")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"function": "run",
		"address":  s.telnetLn.Addr().String(),
	}).Info("mudforge server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	return s.shutdown()
}

func (s *server) shutdown() int {
	logrus.Info("shutdown initiated")

	s.sessions.shutdownAll(fmt.Sprintf("\r\n%s is shutting down. Goodbye.", s.cfg.GameName))

	time.Sleep(s.cfg.ShutdownGracePeriod)

	s.scheduler.Stop()
	_ = s.telnetLn.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.opsSrv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("ops server did not shut down cleanly")
	}

	if err := s.boards.SaveDirty(); err != nil {
		logrus.WithError(err).Error("failed to persist dirty boards on shutdown")
		return exitFailure
	}

	logrus.Info("shutdown complete")
	return exitNormal
}

// sessionRegistry maps a playing mob's id to its owning session, the only
// path a command's narrate.Line delivery has to another actor's transport.
type sessionRegistry struct {
	mu      sync.RWMutex
	byMobID map[string]*session.Session
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{byMobID: make(map[string]*session.Session)}
}

func (r *sessionRegistry) register(mobID string, sess *session.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byMobID[mobID] = sess
}

func (r *sessionRegistry) unregister(mobID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byMobID, mobID)
}

func (r *sessionRegistry) get(mobID string) (*session.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.byMobID[mobID]
	return sess, ok
}

func (r *sessionRegistry) shutdownAll(message string) {
	r.mu.RLock()
	sessions := make([]*session.Session, 0, len(r.byMobID))
	for _, sess := range r.byMobID {
		sessions = append(sessions, sess)
	}
	r.mu.RUnlock()
	for _, sess := range sessions {
		_ = sess.Shutdown(message)
	}
}

// deliver renders and routes every narrate.Line to its recipient's live
// session, silently dropping a line whose recipient has no session
// (already logged off, or an NPC).
func (r *sessionRegistry) deliver(lines []narrate.Line) {
	for _, line := range lines {
		if line.Recipient == nil {
			continue
		}
		sess, ok := r.get(line.Recipient.ID())
		if !ok {
			continue
		}
		if err := sess.Send(line.Text); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "deliver",
				"mob":      line.Recipient.ID(),
				"error":    err,
			}).Debug("failed delivering line to session")
		}
	}
}

func (s *server) handleConnection(conn *telnet.Conn) {
	<-conn.Ready()

	sess := session.New(conn, s.cfg.InactivityTimeout)
	sess.SetState(session.StateGreeting)
	s.metrics.ActiveSessions.Inc()
	defer s.metrics.ActiveSessions.Dec()

	_ = sess.Send(fmt.Sprintf("{oWelcome to %s{x, brought to you by %s.", s.cfg.GameName, s.cfg.GameCreator))
	s.promptUsername(sess)

	for {
		line, err := conn.ReadLine()
		if err != nil {
			break
		}
		sess.Dispatch(line, func(l string) {
			s.handlePlayingLine(sess, l)
		})
	}

	if c := sess.Character(); c != nil {
		s.pipeline.CancelAll(c.Mob.ID())
		s.sessions.unregister(c.Mob.ID())
		s.world.UnregisterMob(c.Mob.ID())
		if err := s.accounts.Save(c); err != nil {
			logrus.WithError(err).WithField("username", c.Username).Error("failed saving character on disconnect")
		}
	}
	_ = sess.Close()
}

func (s *server) promptUsername(sess *session.Session) {
	sess.SetState(session.StateAwaitingUsername)
	_ = sess.Send("Username: ")
	sess.Ask(func(line string) {
		s.onUsername(sess, strings.TrimSpace(line))
	})
}

func (s *server) onUsername(sess *session.Session, username string) {
	if err := validation.Username(username); err != nil {
		_ = sess.Send(err.Error())
		s.promptUsername(sess)
		return
	}
	if s.reg.IsReserved(username) {
		_ = sess.Send("That name is reserved.")
		s.promptUsername(sess)
		return
	}

	sess.SetState(session.StateAwaitingPassword)
	if s.accounts.Exists(username) {
		_ = sess.Send("Password: ")
		sess.Ask(func(line string) {
			s.onExistingPassword(sess, username, strings.TrimRight(line, "\r\n"))
		})
		return
	}

	_ = sess.Send(fmt.Sprintf("Creating a new character named %s.", username))
	_ = sess.Send("Choose a password: ")
	sess.Ask(func(line string) {
		s.onNewPassword(sess, username, strings.TrimRight(line, "\r\n"))
	})
}

func (s *server) onNewPassword(sess *session.Session, username, password string) {
	if err := validation.Password(password); err != nil {
		_ = sess.Send(err.Error())
		_ = sess.Send("Choose a password: ")
		sess.Ask(func(line string) {
			s.onNewPassword(sess, username, strings.TrimRight(line, "\r\n"))
		})
		return
	}

	mob := s.spawnStartingMob(username)
	c, err := s.accounts.Create(username, password, mob)
	if err != nil {
		logrus.WithError(err).WithField("username", username).Error("failed creating account")
		_ = sess.Send("Something went wrong creating your character. Try again later.")
		_ = sess.Close()
		return
	}
	s.enterWorld(sess, c)
}

func (s *server) onExistingPassword(sess *session.Session, username, password string) {
	c, err := s.accounts.Authenticate(username, password)
	switch err {
	case nil:
		s.enterWorld(sess, c)
	case account.ErrWrongPassword:
		_ = sess.Send("Incorrect password.")
		_ = sess.Send("Password: ")
		sess.Ask(func(line string) {
			s.onExistingPassword(sess, username, strings.TrimRight(line, "\r\n"))
		})
	default:
		logrus.WithError(err).WithField("username", username).Error("failed authenticating account")
		_ = sess.Send("Something went wrong logging you in. Try again later.")
		_ = sess.Close()
	}
}

func (s *server) enterWorld(sess *session.Session, c *world.Character) {
	room := s.startingRoom()
	if room == nil {
		logrus.Error("no starting room available, refusing login")
		_ = sess.Send("The world has not been configured yet. Try again later.")
		_ = sess.Close()
		return
	}

	if c.Mob.Location() == nil {
		if err := world.Add(room, c.Mob); err != nil {
			logrus.WithError(err).Error("failed placing character into starting room")
		}
	}
	s.world.RegisterMob(c.Mob)
	s.sessions.register(c.Mob.ID(), sess)
	sess.SetCharacter(c)
	sess.SetState(session.StatePlaying)

	_ = sess.Send(fmt.Sprintf("{oWelcome back, %s.{x", c.Mob.Display()))
	if c.Settings.AutoLook {
		s.dispatchLine(sess, "look")
	}
	_ = sess.SendPrompt()
}

// spawnStartingMob builds a new character's avatar from the first
// registered race and job, the simplest possible character creation flow:
// a full class/race picker is a larger feature than this login surface
// covers.
func (s *server) spawnStartingMob(username string) *world.Mob {
	raceID := firstID(s.reg.Races.IDs())
	jobID := firstID(s.reg.Jobs.IDs())
	race, _ := s.reg.Races.Get(raceID)
	job, _ := s.reg.Jobs.Get(jobID)
	return registry.SpawnMob(username, username, "a new adventurer", "", race, job, s.reg.Abilities)
}

func firstID(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// startingRoom resolves the "start" well-known location if one was
// registered by content, falling back to the first placed room in any
// loaded dungeon.
func (s *server) startingRoom() *world.Room {
	if ref, ok := s.reg.Locations.Get("start"); ok {
		if room, ok := s.world.ResolveRoom(ref); ok {
			return room
		}
	}
	for _, d := range s.world.Dungeons() {
		if rooms := d.Rooms(); len(rooms) > 0 {
			return rooms[0]
		}
	}
	return nil
}

// handlePlayingLine routes one inbound line once a session is in
// StatePlaying: the cancel/config intercepts ahead of the pipeline, then
// ordinary command dispatch.
func (s *server) handlePlayingLine(sess *session.Session, line string) {
	if sess.State() != session.StatePlaying {
		return
	}
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "cancel" || trimmed == "cancel all":
		mobID := sess.Character().Mob.ID()
		if strings.HasSuffix(trimmed, "all") {
			_ = sess.Send(s.pipeline.CancelAll(mobID))
		} else {
			_ = sess.Send(s.pipeline.CancelNext(mobID))
		}
		return
	case trimmed == "config" || strings.HasPrefix(trimmed, "config "):
		s.handleConfig(sess, strings.TrimSpace(strings.TrimPrefix(trimmed, "config")))
		return
	}

	s.dispatchLine(sess, line)
	_ = sess.SendPrompt()
}

func (s *server) dispatchLine(sess *session.Session, line string) {
	c := sess.Character()
	room, ok := c.Mob.Location().(*world.Room)
	if !ok {
		_ = sess.Send("You are nowhere.")
		return
	}
	ctx := &command.Context{
		Actor:   c.Mob,
		Room:    room,
		World:   s.world,
		Deliver: s.sessions.deliver,
	}
	s.pipeline.Dispatch(ctx, c.Mob.ID(), line, time.Now())
}

// handleConfig reads or updates a character's Settings, the one verb the
// command pipeline never sees because command.Context carries a Mob, not
// the Character account envelope that owns Settings.
func (s *server) handleConfig(sess *session.Session, rest string) {
	c := sess.Character()
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		_ = sess.Send(fmt.Sprintf("brief=%v verbose=%v autolook=%v color=%v",
			c.Settings.Brief, c.Settings.Verbose, c.Settings.AutoLook, c.Settings.ColorEnabled))
		return
	}

	setting := strings.ToLower(fields[0])
	on := len(fields) > 1 && (strings.EqualFold(fields[1], "on") || strings.EqualFold(fields[1], "true"))

	switch setting {
	case "brief":
		c.Settings.Brief = on
	case "verbose":
		c.Settings.Verbose = on
	case "autolook", "auto_look":
		c.Settings.AutoLook = on
	case "color":
		c.Settings.ColorEnabled = on
	case "prompt":
		c.Settings.Prompt = strings.Join(fields[1:], " ")
	default:
		_ = sess.Send("Unknown setting: " + setting)
		return
	}

	if err := s.accounts.Save(c); err != nil {
		logrus.WithError(err).WithField("username", c.Username).Error("failed saving settings")
	}
	_ = sess.Send("Setting updated.")
}
