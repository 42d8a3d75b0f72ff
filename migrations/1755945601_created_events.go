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

		collection := core.NewBaseCollection("events")

		collection.Fields.Add(
			&core.TextField{
				Name:     "name",
				Required: true,
				Max:      200,
			},
			&core.TextField{
				Name: "description",
				Max:  5000,
			},
			&core.TextField{
				Name: "venue",
				Max:  200,
			},
			&core.DateField{
				Name:     "start_at",
				Required: true,
			},
			&core.DateField{
				Name: "end_at",
			},
			&core.SelectField{
				Name:      "status",
				Values:    []string{"draft", "published", "cancelled"},
				MaxSelect: 1,
			},
			&core.NumberField{
				Name: "price",
				Min:  types.Pointer(0.0),
			},
			&core.NumberField{
				Name:    "capacity",
				Min:     types.Pointer(0.0),
				OnlyInt: true,
			},
			&core.RelationField{
				Name:         "created_by",
				Required:     true,
				CollectionId: users.Id,
				MaxSelect:    1,
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

		collection.AddIndex("idx_events_created_by", false, "created_by", "")
		collection.AddIndex("idx_events_status_start", false, "status, start_at", "")

		// Built-in record API mirrors the public browse surface.
		collection.ListRule = types.Pointer("status = 'published'")
		collection.ViewRule = types.Pointer("status = 'published'")

		return app.Save(collection)
	}, func(app core.App) error {
		collection, err := app.FindCollectionByNameOrId("events")
		if err != nil {
			return err
		}

		return app.Delete(collection)
	})
}
