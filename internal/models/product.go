package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// ProductDescription holds the three feature bullets shown on a product card.
type ProductDescription struct {
	Feature1 string `bson:"feature1" json:"feature1"`
	Feature2 string `bson:"feature2" json:"feature2"`
	Feature3 string `bson:"feature3" json:"feature3"`
}

// Product is a bike listed in the storefront. Image holds the raw bytes of
// the uploaded picture; JSON carries it as base64.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name        string             `bson:"name" json:"name"`
	Description ProductDescription `bson:"description" json:"description"`
	Image       []byte             `bson:"image,omitempty" json:"image,omitempty"`
	Price       int                `bson:"price" json:"price"`
}
