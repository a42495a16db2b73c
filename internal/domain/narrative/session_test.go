package narrative_test

import (
	"testing"
	"time"

	"github.com/okian/bureau/internal/domain/model"
	narrative "github.com/okian/bureau/internal/domain/narrative"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeClock advances only when told to, making reaction times exact.
type fakeClock struct {
	at time.Time
}

func (c *fakeClock) now() time.Time          { return c.at }
func (c *fakeClock) advance(d time.Duration) { c.at = c.at.Add(d) }

func twoNodeGraph() *narrative.Graph {
	g, err := narrative.NewGraph(narrative.Script{
		Tag: "TEST",
		Nodes: []narrative.Node{
			{
				Text:        "first",
				Expression:  "Neutral",
				TraitTarget: model.TraitAgreeableness,
				Choices: []narrative.Choice{
					{Label: "kind", Weight: 1, Next: 1},
					{Label: "harsh", Weight: -1, Next: 1},
				},
			},
			{
				Text:       "last",
				Expression: "Smiling",
				Choices: []narrative.Choice{
					{Label: "finish", Next: narrative.Terminal},
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return g
}

func TestSessionWalk(t *testing.T) {
	Convey("Given a fresh session", t, func() {
		clock := &fakeClock{at: time.Unix(1000, 0)}
		sess := narrative.NewSession(twoNodeGraph(), "subject-1", narrative.WithClock(clock.now))

		Convey("Then it should start presenting the first node", func() {
			So(sess.State(), ShouldEqual, narrative.StatePresenting)
			p, err := sess.PresentCurrentNode()
			So(err, ShouldBeNil)
			So(p.Text, ShouldEqual, "first")
			So(p.Expression, ShouldEqual, "Neutral")
			So(p.Choices, ShouldResemble, []string{"kind", "harsh"})
		})

		Convey("When pointer samples arrive", func() {
			So(sess.RecordPointerSample(30), ShouldBeNil)
			So(sess.RecordPointerSample(-5), ShouldBeNil) // dropped
			So(sess.RecordPointerSample(70), ShouldBeNil)

			Convey("Then the session should be awaiting a choice", func() {
				So(sess.State(), ShouldEqual, narrative.StateAwaitingChoice)
			})

			Convey("And selecting a choice should emit the captured telemetry", func() {
				clock.advance(2 * time.Second)
				event, state, err := sess.SelectChoice(0)
				So(err, ShouldBeNil)
				So(state, ShouldEqual, narrative.StatePresenting)
				So(event.EventID, ShouldEqual, "subject-1#0")
				So(event.SubjectID, ShouldEqual, "subject-1")
				So(event.QuestionID, ShouldEqual, "TEST")
				So(event.TraitTarget, ShouldEqual, model.TraitAgreeableness)
				So(event.ChoiceWeight, ShouldEqual, 1)
				So(event.ReactionTimeMs, ShouldEqual, 2000)
				So(event.PointerDistance, ShouldEqual, 100)
			})
		})

		Convey("When advancing to a new node", func() {
			So(sess.RecordPointerSample(500), ShouldBeNil)
			clock.advance(time.Second)
			_, _, err := sess.SelectChoice(1)
			So(err, ShouldBeNil)

			Convey("Then the timer and accumulator should reset", func() {
				clock.advance(3 * time.Second)
				event, state, err := sess.SelectChoice(0)
				So(err, ShouldBeNil)
				So(state, ShouldEqual, narrative.StateTerminal)
				So(event.EventID, ShouldEqual, "subject-1#1")
				So(event.ReactionTimeMs, ShouldEqual, 3000)
				So(event.PointerDistance, ShouldEqual, 0)
				So(event.TraitTarget, ShouldEqual, model.TraitNone)
			})
		})
	})
}

func TestSessionInvalidChoice(t *testing.T) {
	Convey("Given a session awaiting a choice", t, func() {
		clock := &fakeClock{at: time.Unix(2000, 0)}
		sess := narrative.NewSession(twoNodeGraph(), "subject-2", narrative.WithClock(clock.now))
		So(sess.RecordPointerSample(42), ShouldBeNil)

		Convey("When selecting an index the node does not offer", func() {
			_, state, err := sess.SelectChoice(2)

			Convey("Then it should fail and leave the node state unchanged", func() {
				So(err, ShouldWrap, narrative.ErrInvalidChoiceIndex)
				So(state, ShouldEqual, narrative.StateAwaitingChoice)

				// The same node re-presents and the decision window is intact.
				p, perr := sess.PresentCurrentNode()
				So(perr, ShouldBeNil)
				So(p.Text, ShouldEqual, "first")

				clock.advance(time.Second)
				event, _, serr := sess.SelectChoice(0)
				So(serr, ShouldBeNil)
				So(event.ReactionTimeMs, ShouldEqual, 1000)
				So(event.PointerDistance, ShouldEqual, 42)
			})
		})

		Convey("When selecting a negative index", func() {
			_, _, err := sess.SelectChoice(-1)

			Convey("Then it should fail with the same error", func() {
				So(err, ShouldWrap, narrative.ErrInvalidChoiceIndex)
			})
		})
	})
}

func TestSessionTerminal(t *testing.T) {
	Convey("Given a session driven to completion", t, func() {
		sess := narrative.NewSession(twoNodeGraph(), "subject-3")
		_, _, err := sess.SelectChoice(0)
		So(err, ShouldBeNil)
		_, state, err := sess.SelectChoice(0)
		So(err, ShouldBeNil)
		So(state, ShouldEqual, narrative.StateTerminal)

		Convey("Then terminal is absorbing for every operation", func() {
			_, _, err := sess.SelectChoice(0)
			So(err, ShouldWrap, narrative.ErrSessionTerminal)

			So(sess.RecordPointerSample(10), ShouldWrap, narrative.ErrSessionTerminal)

			_, err = sess.PresentCurrentNode()
			So(err, ShouldWrap, narrative.ErrSessionTerminal)

			So(sess.State(), ShouldEqual, narrative.StateTerminal)
		})
	})
}
