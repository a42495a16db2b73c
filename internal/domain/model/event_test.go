package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/bureau/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTraitProfileSerialization(t *testing.T) {
	convey.Convey("Given a trait profile", t, func() {
		profile := model.TraitProfile{
			Openness:          40,
			Conscientiousness: 60,
			Extraversion:      50,
			Agreeableness:     60,
			Neuroticism:       50,
		}

		convey.Convey("When serialized to JSON", func() {
			raw, err := json.Marshal(profile)
			convey.So(err, convey.ShouldBeNil)

			var fields map[string]float64
			convey.So(json.Unmarshal(raw, &fields), convey.ShouldBeNil)

			convey.Convey("Then it should expose the five documented trait keys", func() {
				convey.So(fields, convey.ShouldContainKey, "openness")
				convey.So(fields, convey.ShouldContainKey, "conscientiousness")
				convey.So(fields, convey.ShouldContainKey, "extraversion")
				convey.So(fields, convey.ShouldContainKey, "agreeableness")
				convey.So(fields, convey.ShouldContainKey, "neuroticism")
				convey.So(len(fields), convey.ShouldEqual, 5)
			})
		})
	})
}

func TestVerdictSerialization(t *testing.T) {
	convey.Convey("Given a reject verdict with a reason", t, func() {
		v := model.Verdict{Outcome: model.OutcomeReject, Reason: "instability"}

		convey.Convey("When serialized to JSON", func() {
			raw, err := json.Marshal(v)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldContainSubstring, `"verdict":"REJECT"`)
			convey.So(string(raw), convey.ShouldContainSubstring, `"reason":"instability"`)
		})
	})

	convey.Convey("Given a hire verdict without a reason", t, func() {
		v := model.Verdict{Outcome: model.OutcomeHire}

		convey.Convey("When serialized to JSON", func() {
			raw, err := json.Marshal(v)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(raw), convey.ShouldContainSubstring, `"verdict":"HIRE"`)
			convey.So(string(raw), convey.ShouldNotContainSubstring, "reason")
		})
	})
}
