package validators

import "go.mongodb.org/mongo-driver/bson"

// VanityNumberValidator mirrors model.VanityRecord. Selected and phonetics
// are capped at the most selections a ranking may return.
var VanityNumberValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"phone",
			"digits",
			"candidate_count",
			"selected",
			"phonetics",
			"outcome",
			"ranking_status",
			"layout",
			"generated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},

			"phone": bson.M{
				"bsonType": "string",
				"pattern":  `^\+1[0-9]{10}$`,
			},

			"digits": bson.M{
				"bsonType": "string",
				"pattern":  "^[0-9]{10}$",
			},

			"candidate_count": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"selected": bson.M{
				"bsonType": "array",
				"maxItems": 5,
				"items":    bson.M{"bsonType": "string", "minLength": 1},
			},

			"phonetics": bson.M{
				"bsonType": "array",
				"maxItems": 5,
				"items":    bson.M{"bsonType": "string"},
			},

			"outcome": bson.M{
				"enum": []string{"generated", "ranking_unavailable", "no_candidates"},
			},

			"ranking_status": bson.M{
				"enum": []string{"selected", "no_selection", "unavailable"},
			},

			"oracle": bson.M{"bsonType": "string"},

			"layout": bson.M{
				"enum": []string{"full", "area_code"},
			},

			"dictionary_fingerprint": bson.M{"bsonType": "string"},

			"generated_at": bson.M{"bsonType": "date"},
		},
	},
}
