package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Admin is a privileged account that gates bulk teacher retrieval.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	AdminID      string             `bson:"adminId" json:"adminId"`
	PasswordHash string             `bson:"password" json:"-"`
}
