package app

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Arena/internal/core"
	"github.com/dkeye/Arena/internal/domain"
	"github.com/dkeye/Arena/internal/protocol"
	"github.com/dkeye/Arena/internal/storage"
)

// Coordinator orchestrates the debate lifecycle: pairing, session
// creation, argument submission, vote tallying and termination. It is
// the only writer of debate records.
type Coordinator struct {
	Registry *Registry
	Queue    *MatchQueue
	Rooms    core.RoomManager
	Store    storage.DebateStore
	Policy   Policy
}

func NewCoordinator(reg *Registry, queue *MatchQueue, rooms core.RoomManager, store storage.DebateStore, policy Policy) *Coordinator {
	if policy == nil {
		policy = KeepOpenPolicy{}
	}
	return &Coordinator{Registry: reg, Queue: queue, Rooms: rooms, Store: store, Policy: policy}
}

// JoinQueue enqueues a waiting participant and starts a debate when an
// opponent with the same normalized topic is already waiting.
func (c *Coordinator) JoinQueue(connID core.SessionID, sess core.MemberSession, selfID domain.SessionID, displayName, topic string) error {
	if selfID == "" {
		return domain.ErrEmptySession
	}
	if domain.NormalizeTopic(topic) == "" {
		return domain.ErrEmptyTopic
	}
	if len(topic) > domain.MaxTopicLen {
		return domain.ErrTopicTooLong
	}

	c.Registry.SetIdentity(connID, selfID, displayName)
	entry := &QueueEntry{
		ConnID:      connID,
		SessionID:   selfID,
		DisplayName: sess.Meta().DisplayName,
		Topic:       topic,
		Session:     sess,
	}

	opponent, matched := c.Queue.Enqueue(entry)
	if !matched {
		c.sendTo(sess, protocol.NewQueueStatusWaiting())
		return nil
	}

	_, err := c.StartDebate(opponent, entry)
	return err
}

// LeaveQueue removes a waiting entry. Idempotent.
func (c *Coordinator) LeaveQueue(selfID domain.SessionID) {
	c.Queue.Dequeue(selfID)
}

// StartDebate assigns complementary sides by coin flip, persists the
// new session and forms the room. Both entries have already left the
// queue; on store failure nothing is retained and both participants
// are told the match fell through.
func (c *Coordinator) StartDebate(a, b *QueueEntry) (*domain.Debate, error) {
	sideA := domain.SideFor
	if rand.IntN(2) == 1 {
		sideA = domain.SideAgainst
	}
	debate := domain.NewDebate(a.Topic,
		domain.Participant{SessionID: a.SessionID, DisplayName: a.DisplayName, Side: sideA},
		domain.Participant{SessionID: b.SessionID, DisplayName: b.DisplayName, Side: sideA.Opposite()},
	)

	if !c.Store.Available() {
		c.failMatch(a, b)
		return nil, domain.ErrStoreUnavailable
	}
	if err := c.Store.Create(debate); err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("create debate")
		c.failMatch(a, b)
		return nil, domain.ErrStoreUnavailable
	}

	room := c.Rooms.Create(debate.ID)
	room.AddParticipant(a.ConnID, a.Session)
	room.AddParticipant(b.ConnID, b.Session)
	c.Registry.BindRoom(a.ConnID, debate.ID, false)
	c.Registry.BindRoom(b.ConnID, debate.ID, false)

	c.sendTo(a.Session, protocol.MatchFound{
		Type: protocol.TypeMatchFound, DebateID: debate.ID, Topic: debate.Topic,
		Side: sideA, OpponentSide: sideA.Opposite(),
	})
	c.sendTo(b.Session, protocol.MatchFound{
		Type: protocol.TypeMatchFound, DebateID: debate.ID, Topic: debate.Topic,
		Side: sideA.Opposite(), OpponentSide: sideA,
	})

	log.Info().Str("module", "app.coordinator").
		Str("debate", string(debate.ID)).
		Str("topic", debate.Topic).
		Str("session_a", string(a.SessionID)).
		Str("session_b", string(b.SessionID)).
		Msg("debate started")
	return debate, nil
}

// failMatch notifies both sides and leaves them unmatched. They are
// not requeued; rejoining is the client's call.
func (c *Coordinator) failMatch(a, b *QueueEntry) {
	errEvt := protocol.NewRoomError(protocol.ReasonStoreUnavailable)
	c.sendTo(a.Session, errEvt)
	c.sendTo(b.Session, errEvt)
}

// JoinRoom attaches a channel to a debate room, as a returning
// participant or as a spectator, and replies with a full snapshot.
func (c *Coordinator) JoinRoom(connID core.SessionID, sess core.MemberSession, selfID domain.SessionID, displayName string, debateID domain.DebateID, asParticipant bool) error {
	if !c.Store.Available() {
		return domain.ErrStoreUnavailable
	}
	debate, err := c.Store.FindByID(debateID)
	if err != nil {
		return err
	}
	c.Registry.SetIdentity(connID, selfID, displayName)

	if asParticipant {
		if !debate.IsParticipant(selfID) {
			return domain.ErrNotParticipant
		}
		// Participants may rejoin after a drop even if the room was
		// garbage collected in between.
		room := c.Rooms.GetOrCreate(debateID)
		room.AddParticipant(connID, sess)
		c.Registry.BindRoom(connID, debateID, false)
	} else {
		room, ok := c.Rooms.Get(debateID)
		if !ok {
			return domain.ErrNotFound
		}
		room.AddSpectator(connID, sess)
		c.Registry.BindRoom(connID, debateID, true)
		c.persistSpectatorCount(debate, room.SpectatorCount())
		c.broadcast(debateID, protocol.NewSpectatorCount(room.SpectatorCount()))
	}

	c.sendTo(sess, protocol.NewSessionSnapshot(debate))
	return nil
}

// SubmitArgument appends a timestamped argument to the caller's side
// and fans the update out to the room.
func (c *Coordinator) SubmitArgument(debateID domain.DebateID, selfID domain.SessionID, text string) error {
	if text == "" {
		return domain.ErrEmptyArgument
	}
	if len(text) > domain.MaxArgumentLen {
		return domain.ErrArgumentTooLong
	}
	if !c.Store.Available() {
		return domain.ErrStoreUnavailable
	}
	debate, err := c.Store.FindByID(debateID)
	if err != nil {
		return err
	}
	entry, err := debate.AppendArgument(selfID, text)
	if err != nil {
		return err
	}
	if err := c.Store.Save(debate); err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("debate", string(debateID)).Msg("save argument")
		return domain.ErrStoreUnavailable
	}

	c.broadcast(debateID, protocol.NewSessionSnapshot(debate))
	c.broadcast(debateID, protocol.NewArgument{Type: protocol.TypeNewArgument, DebateID: debateID, Entry: entry})
	return nil
}

// CastVote records one spectator vote. Repeat votes surface
// domain.ErrAlreadyVoted so the caller can drop them silently.
func (c *Coordinator) CastVote(debateID domain.DebateID, selfID domain.SessionID, target domain.VoteTarget) error {
	if selfID == "" {
		return domain.ErrEmptySession
	}
	if !c.Store.Available() {
		return domain.ErrStoreUnavailable
	}
	debate, err := c.Store.FindByID(debateID)
	if err != nil {
		return err
	}
	if err := debate.CastVote(selfID, target); err != nil {
		return err
	}
	if err := c.Store.Save(debate); err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("debate", string(debateID)).Msg("save vote")
		return domain.ErrStoreUnavailable
	}

	spectators := 0
	if room, ok := c.Rooms.Get(debateID); ok {
		room.MarkVoted(selfID)
		spectators = room.SpectatorCount()
	}
	c.broadcast(debateID, protocol.VotesUpdated{
		Type: protocol.TypeVotesUpdated, Tally: debate.Votes, SpectatorCount: spectators,
	})
	return nil
}

// EndDebate resolves the winner from the tallies and closes the
// session. Only a participant of the debate may request this; an
// empty requester is rejected, never treated as privileged.
func (c *Coordinator) EndDebate(debateID domain.DebateID, requestedBy domain.SessionID) error {
	if requestedBy == "" {
		return domain.ErrEmptySession
	}
	if !c.Store.Available() {
		return domain.ErrStoreUnavailable
	}
	debate, err := c.Store.FindByID(debateID)
	if err != nil {
		return err
	}
	if !debate.IsParticipant(requestedBy) {
		return domain.ErrNotAuthorized
	}
	return c.finishDebate(debate)
}

// forceEnd closes a debate on the engine's own behalf, the disconnect
// policy path. Never reachable from a client event.
func (c *Coordinator) forceEnd(debateID domain.DebateID) error {
	if !c.Store.Available() {
		return domain.ErrStoreUnavailable
	}
	debate, err := c.Store.FindByID(debateID)
	if err != nil {
		return err
	}
	return c.finishDebate(debate)
}

func (c *Coordinator) finishDebate(debate *domain.Debate) error {
	if err := debate.Finish(time.Now()); err != nil {
		return err
	}
	if err := c.Store.Save(debate); err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("debate", string(debate.ID)).Msg("save finished debate")
		return domain.ErrStoreUnavailable
	}

	c.broadcast(debate.ID, protocol.DebateEnded{
		Type: protocol.TypeDebateEnded, Winner: debate.Winner, Tally: debate.Votes,
	})
	c.teardownRoom(debate.ID)

	log.Info().Str("module", "app.coordinator").
		Str("debate", string(debate.ID)).
		Str("winner", string(debate.Winner)).
		Int("votes_a", debate.Votes.A).
		Int("votes_b", debate.Votes.B).
		Msg("debate ended")
	return nil
}

// Snapshot loads the current record for a room member.
func (c *Coordinator) Snapshot(debateID domain.DebateID) (*domain.Debate, error) {
	if !c.Store.Available() {
		return nil, domain.ErrStoreUnavailable
	}
	return c.Store.FindByID(debateID)
}

// OnDisconnect removes the channel from every in-memory set it belongs
// to before any further event from it could be processed.
func (c *Coordinator) OnDisconnect(connID core.SessionID) {
	c.Queue.DequeueConn(connID)

	if debateID, ok := c.Registry.RoomOf(connID); ok {
		if room, live := c.Rooms.Get(debateID); live {
			wasSpectator, removed := room.Remove(connID)
			switch {
			case removed && wasSpectator:
				count := room.SpectatorCount()
				if debate, err := c.Store.FindByID(debateID); err == nil {
					c.persistSpectatorCount(debate, count)
				}
				c.broadcast(debateID, protocol.NewSpectatorCount(count))
			case removed:
				c.onParticipantDrop(debateID)
			}
		}
	}
	c.Registry.Unbind(connID)
	log.Info().Str("module", "app.coordinator").Str("sid", string(connID)).Msg("disconnected")
}

// onParticipantDrop consults the policy. The default keeps the debate
// active so the room stays queryable and voting keeps working.
func (c *Coordinator) onParticipantDrop(debateID domain.DebateID) {
	if !c.Store.Available() {
		return
	}
	debate, err := c.Store.FindByID(debateID)
	if err != nil || debate.Status != domain.StatusActive {
		return
	}
	if c.Policy.OnParticipantDisconnect(debate) == ForceEnd {
		if err := c.forceEnd(debateID); err != nil {
			log.Error().Err(err).Str("module", "app.coordinator").Str("debate", string(debateID)).Msg("force end after disconnect")
		}
	}
}

func (c *Coordinator) teardownRoom(debateID domain.DebateID) {
	if room, ok := c.Rooms.Get(debateID); ok {
		for _, snap := range room.Participants() {
			c.Registry.ClearRoom(snap.SID)
		}
		for _, snap := range room.Spectators() {
			c.Registry.ClearRoom(snap.SID)
		}
	}
	c.Rooms.Stop(debateID)
}

// persistSpectatorCount is best-effort; a store hiccup must not break
// the live room.
func (c *Coordinator) persistSpectatorCount(debate *domain.Debate, count int) {
	debate.SpectatorCount = count
	if err := c.Store.Save(debate); err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Str("debate", string(debate.ID)).Msg("save spectator count")
	}
}

// broadcast encodes and fans out to whoever is still in the room.
// Late completions for gone rooms are dropped here.
func (c *Coordinator) broadcast(debateID domain.DebateID, v any) {
	room, ok := c.Rooms.Get(debateID)
	if !ok {
		return
	}
	data, err := protocol.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("marshal broadcast")
		return
	}
	room.Broadcast(data)
}

func (c *Coordinator) sendTo(sess core.MemberSession, v any) {
	data, err := protocol.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("marshal send")
		return
	}
	if err := sess.Signal().TrySend(data); err != nil {
		log.Warn().Err(err).Str("module", "app.coordinator").Msg("send dropped")
	}
}
