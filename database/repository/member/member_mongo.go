package memberRepo

import (
	"go.mongodb.org/mongo-driver/mongo"

	"studiofit/database"
)

type mongoMemberRepo struct {
	coll *mongo.Collection
}

// NewMongoMemberRepo returns a MemberRepository backed by MongoDB.
func NewMongoMemberRepo() MemberRepository {
	return &mongoMemberRepo{coll: database.DB().Collection("members")}
}
