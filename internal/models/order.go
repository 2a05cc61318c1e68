package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is a purchase placed from the storefront. Only email and payment are
// interpreted by the server; every other field the client sends (line items,
// shipping address, product snapshot) is kept verbatim in Details and stored
// inline at the top level of the document.
type Order struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Email   string             `bson:"email"`
	Payment bson.M             `bson:"payment,omitempty"`
	Details bson.M             `bson:",inline"`
}

// MarshalJSON flattens Details next to the known fields so the order reads
// back in the same shape it was posted.
func (o Order) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(o.Details)+3)
	for key, value := range o.Details {
		out[key] = value
	}
	out["_id"] = o.ID
	out["email"] = o.Email
	if o.Payment != nil {
		out["payment"] = o.Payment
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits a posted order into its known fields and Details.
// A client supplied _id is ignored; the store assigns identifiers.
func (o *Order) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if value, ok := raw["email"]; ok && value != nil {
		email, isString := value.(string)
		if !isString {
			return fmt.Errorf("order email must be a string, got %T", value)
		}
		o.Email = email
	}
	if value, ok := raw["payment"]; ok && value != nil {
		payment, isObject := value.(map[string]interface{})
		if !isObject {
			return fmt.Errorf("order payment must be an object, got %T", value)
		}
		o.Payment = payment
	}

	delete(raw, "_id")
	delete(raw, "email")
	delete(raw, "payment")
	o.Details = raw
	return nil
}
