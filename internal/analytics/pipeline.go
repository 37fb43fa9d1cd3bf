// Package analytics computes the job dashboard facets. Pipeline builds the
// Mongo aggregation and Decode reads its single result document; Compute
// produces the same JobStats in process for stores without an aggregation
// engine.
package analytics

import (
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// HistogramBoundaries are the lower-inclusive bucket edges of the
// applications histogram. Counts at or above the last edge fall into
// HistogramOverflow.
var HistogramBoundaries = []int64{0, 50, 100, 200, 500}

const HistogramOverflow = "500+"

// SkillPattern is matched against job titles for the topSkills facet.
const SkillPattern = `(AI|ML|Engineer|Data Scientist)`

// Hint is attached to aggregation failures.
const Hint = "Ensure 'publishedAt' values are dates or numeric years (e.g., 2021)"

var byCount = bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}}

func groupBy(field string) bson.A {
	return bson.A{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		byCount,
	}
}

// Pipeline returns the aggregation producing one facet document.
func Pipeline() mongo.Pipeline {
	boundaries := bson.A{}
	for _, b := range HistogramBoundaries {
		boundaries = append(boundaries, b)
	}

	project := bson.D{{Key: "$project", Value: bson.D{
		{Key: "contractType", Value: 1},
		{Key: "workType", Value: 1},
		{Key: "experienceLevel", Value: 1},
		{Key: "sector", Value: 1},
		{Key: "title", Value: 1},
		{Key: "companyName", Value: 1},
		{Key: "applicationsCount", Value: 1},
		{Key: "location", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$type", Value: "$location"}}, "string"}}}},
			{Key: "then", Value: bson.D{{Key: "$arrayElemAt", Value: bson.A{
				bson.D{{Key: "$split", Value: bson.A{"$location", ","}}}, 0,
			}}}},
			{Key: "else", Value: "$location"},
		}}}},
		{Key: "month", Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$type", Value: "$publishedAt"}}, "date"}}}},
			{Key: "then", Value: bson.D{{Key: "$toString", Value: bson.D{{Key: "$year", Value: "$publishedAt"}}}}},
			{Key: "else", Value: bson.D{{Key: "$toString", Value: "$publishedAt"}}},
		}}}},
		{Key: "skills", Value: bson.D{{Key: "$regexFindAll", Value: bson.D{
			{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$title", ""}}}},
			{Key: "regex", Value: SkillPattern},
			{Key: "options", Value: "i"},
		}}}},
	}}}

	facet := bson.D{{Key: "$facet", Value: bson.D{
		{Key: "contractTypes", Value: groupBy("contractType")},
		{Key: "workTypes", Value: groupBy("workType")},
		{Key: "experienceLevels", Value: groupBy("experienceLevel")},
		{Key: "sectors", Value: groupBy("sector")},
		{Key: "locations", Value: groupBy("location")},
		{Key: "applicationsHistogram", Value: bson.A{
			bson.D{{Key: "$match", Value: bson.D{{Key: "applicationsCount", Value: bson.D{{Key: "$gte", Value: 0}}}}}},
			bson.D{{Key: "$bucket", Value: bson.D{
				{Key: "groupBy", Value: "$applicationsCount"},
				{Key: "boundaries", Value: boundaries},
				{Key: "default", Value: HistogramOverflow},
			}}},
			byCount,
		}},
		{Key: "trendsOverTime", Value: groupBy("month")},
		{Key: "topSkills", Value: bson.A{
			bson.D{{Key: "$unwind", Value: "$skills"}},
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: bson.D{{Key: "$toLower", Value: "$skills.match"}}},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
			byCount,
		}},
		{Key: "titles", Value: groupBy("title")},
		{Key: "companyNames", Value: groupBy("companyName")},
		{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "n"}}}},
	}}}

	return mongo.Pipeline{project, facet}
}
