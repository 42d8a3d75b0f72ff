package migrations

import (
	"github.com/pocketbase/pocketbase/core"
	m "github.com/pocketbase/pocketbase/migrations"
	"github.com/pocketbase/pocketbase/tools/types"
)

func init() {
	m.Register(func(app core.App) error {
		users, err := app.FindCollectionByNameOrId("users")
		if err != nil {
			return err
		}
		events, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		collection := core.NewBaseCollection("registrations")

		collection.Fields.Add(
			&core.RelationField{
				Name:         "event",
				Required:     true,
				CollectionId: events.Id,
				MaxSelect:    1,
			},
			&core.RelationField{
				Name:         "user",
				CollectionId: users.Id,
				MaxSelect:    1,
			},
			&core.EmailField{
				Name:     "user_email",
				Required: true,
			},
			&core.TextField{
				Name: "user_name",
				Max:  200,
			},
			&core.SelectField{
				Name:      "status",
				Values:    []string{"confirmed", "cancelled"},
				MaxSelect: 1,
			},
			&core.NumberField{
				Name:    "ticket_count",
				Min:     types.Pointer(1.0),
				OnlyInt: true,
			},
			&core.TextField{
				Name:   "cancel_code_hash",
				Hidden: true,
			},
			&core.AutodateField{
				Name:     "created",
				OnCreate: true,
			},
			&core.AutodateField{
				Name:     "updated",
				OnCreate: true,
				OnUpdate: true,
			},
		)

		collection.AddIndex("idx_registrations_event", false, "event", "")
		collection.AddIndex("idx_registrations_user", false, "user", "")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("registrations")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
