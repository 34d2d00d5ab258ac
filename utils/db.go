package utils

import "go.mongodb.org/mongo-driver/mongo"

var db *mongo.Database

func SetDB(database *mongo.Database) {
	db = database
}

func GetDB() *mongo.Database {
	return db
}
