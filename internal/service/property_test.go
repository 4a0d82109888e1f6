package service_test

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"zillowlike.app/api/internal/assist"
	"zillowlike.app/api/internal/model"
	"zillowlike.app/api/internal/service"
	"zillowlike.app/api/internal/store"
)

var _ = Describe("PropertyService", func() {
	var (
		ctx        context.Context
		properties *mockPropertyStore
		images     *mockImageStore
		members    *mockTeamMemberStore
		settings   *mockSettingStore
		mediaStore *mockMedia
		llmClient  *mockLLM
		svc        service.PropertyService
		owner      *model.User
		existing   *model.Property
	)

	validInput := func() service.PropertyInput {
		area := 85.0
		return service.PropertyInput{
			Title:      "Apartamento reformado no Água Verde",
			Purpose:    model.PurposeSale,
			Type:       model.PropertyTypeApartment,
			PriceCents: 65000000,
			AreaM2:     &area,
			Bedrooms:   3,
			Bathrooms:  2,
			Address:    model.Address{City: "Curitiba", State: "pr", Neighborhood: "Água Verde"},
		}
	}

	BeforeEach(func() {
		ctx = context.Background()
		owner = &model.User{ID: 10, Role: model.RoleRealtor, Name: "Carla"}
		existing = &model.Property{
			ID:      300,
			OwnerID: owner.ID,
			Title:   "Casa com quintal",
			Status:  model.PropertyStatusActive,
			Purpose: model.PurposeRent,
			Type:    model.PropertyTypeHouse,
			Address: model.Address{City: "Natal", State: "RN"},
		}
		properties = &mockPropertyStore{
			getByIDFn: func(_ context.Context, id int64) (*model.Property, error) {
				if id != existing.ID {
					return nil, store.ErrNotFound
				}
				cp := *existing
				return &cp, nil
			},
		}
		images = &mockImageStore{}
		members = newMockTeamMemberStore()
		settings = newMockSettingStore()
		mediaStore = &mockMedia{}
		llmClient = &mockLLM{reply: `{"description":"Casa ampla com quintal gramado."}`}
		svc = service.NewPropertyService(properties, images, members, settings, mediaStore,
			assist.New(llmClient, assist.Config{}))
	})

	Describe("Create", func() {
		It("creates a draft owned by the caller with a unique slug", func() {
			var created *model.Property
			properties.createFn = func(_ context.Context, p *model.Property) error {
				created = p
				return nil
			}

			p, err := svc.Create(ctx, owner, validInput())
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(Equal(created))
			Expect(p.OwnerID).To(Equal(owner.ID))
			Expect(p.Status).To(Equal(model.PropertyStatusDraft))
			Expect(p.Address.State).To(Equal("PR"))
			Expect(p.Slug).To(Equal("apartamento-reformado-no-agua-verde-curitiba-" + strconv.FormatInt(p.ID, 10)))
		})

		It("forbids plain users from listing", func() {
			_, err := svc.Create(ctx, &model.User{ID: 2, Role: model.RoleUser}, validInput())
			Expect(err).To(MatchError(service.ErrForbidden))
		})

		It("requires team membership to list under a team", func() {
			in := validInput()
			in.TeamID = int64Ptr(77)
			_, err := svc.Create(ctx, owner, in)
			Expect(errors.Is(err, service.ErrForbidden)).To(BeTrue())
		})

		DescribeTable("validates input",
			func(mutate func(in *service.PropertyInput)) {
				in := validInput()
				mutate(&in)
				_, err := svc.Create(ctx, owner, in)
				Expect(errors.Is(err, service.ErrInvalidInput)).To(BeTrue())
			},
			Entry("blank title", func(in *service.PropertyInput) { in.Title = " " }),
			Entry("bad purpose", func(in *service.PropertyInput) { in.Purpose = "LEASE" }),
			Entry("zero price", func(in *service.PropertyInput) { in.PriceCents = 0 }),
			Entry("long state", func(in *service.PropertyInput) { in.Address.State = "Paraná" }),
			Entry("half coordinates", func(in *service.PropertyInput) {
				lat := -25.4
				in.Latitude = &lat
			}),
			Entry("sold on create", func(in *service.PropertyInput) { in.Status = model.PropertyStatusSold }),
		)
	})

	Describe("Update", func() {
		var updated *model.Property

		BeforeEach(func() {
			updated = nil
			properties.updateFn = func(_ context.Context, p *model.Property) error {
				updated = p
				return nil
			}
		})

		It("regenerates the slug from the new title and city", func() {
			in := validInput()
			in.Purpose = model.PurposeRent
			p, err := svc.Update(ctx, owner, existing.ID, in)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated).NotTo(BeNil())
			Expect(p.Slug).To(Equal("apartamento-reformado-no-agua-verde-curitiba-300"))
		})

		DescribeTable("keeps the purpose of a closed listing",
			func(status model.PropertyStatus, purpose, attempted model.Purpose) {
				existing.Status = status
				existing.Purpose = purpose
				in := validInput()
				in.Purpose = attempted

				_, err := svc.Update(ctx, owner, existing.ID, in)
				Expect(errors.Is(err, service.ErrInvalidInput)).To(BeTrue())
				Expect(updated).To(BeNil())
			},
			Entry("sold sale listing turned rental", model.PropertyStatusSold, model.PurposeSale, model.PurposeRent),
			Entry("rented listing turned sale", model.PropertyStatusRented, model.PurposeRent, model.PurposeSale),
		)

		It("still edits other fields of a rented listing", func() {
			existing.Status = model.PropertyStatusRented
			in := validInput()
			in.Purpose = model.PurposeRent
			_, err := svc.Update(ctx, owner, existing.ID, in)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Title).To(Equal("Apartamento reformado no Água Verde"))
		})
	})

	Describe("Get", func() {
		It("hides unpublished listings from strangers", func() {
			existing.Status = model.PropertyStatusDraft
			_, err := svc.Get(ctx, nil, existing.ID)
			Expect(err).To(MatchError(service.ErrPropertyNotFound))

			p, err := svc.Get(ctx, owner, existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ID).To(Equal(existing.ID))
		})

		It("attaches images", func() {
			images.listByPropertyFn = func(_ context.Context, _ int64) ([]model.Image, error) {
				return []model.Image{{ID: 1}, {ID: 2}}, nil
			}
			p, err := svc.Get(ctx, nil, existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Images).To(HaveLen(2))
		})
	})

	Describe("ChangeStatus", func() {
		DescribeTable("transitions",
			func(from model.PropertyStatus, purpose model.Purpose, to model.PropertyStatus, ok bool) {
				existing.Status = from
				existing.Purpose = purpose
				_, err := svc.ChangeStatus(ctx, owner, existing.ID, to)
				if ok {
					Expect(err).NotTo(HaveOccurred())
				} else {
					Expect(errors.Is(err, service.ErrInvalidStatusTransition)).To(BeTrue())
				}
			},
			Entry("publish a draft", model.PropertyStatusDraft, model.PurposeSale, model.PropertyStatusActive, true),
			Entry("pause an active listing", model.PropertyStatusActive, model.PurposeSale, model.PropertyStatusPaused, true),
			Entry("sell a sale listing", model.PropertyStatusActive, model.PurposeSale, model.PropertyStatusSold, true),
			Entry("rent a rental", model.PropertyStatusPaused, model.PurposeRent, model.PropertyStatusRented, true),
			Entry("relist a sold listing", model.PropertyStatusSold, model.PurposeSale, model.PropertyStatusActive, true),
			Entry("sell a rental", model.PropertyStatusActive, model.PurposeRent, model.PropertyStatusSold, false),
			Entry("rent a sale listing", model.PropertyStatusActive, model.PurposeSale, model.PropertyStatusRented, false),
			Entry("sell a draft", model.PropertyStatusDraft, model.PurposeSale, model.PropertyStatusSold, false),
			Entry("same status", model.PropertyStatusActive, model.PurposeSale, model.PropertyStatusActive, false),
		)

		It("forbids strangers", func() {
			_, err := svc.ChangeStatus(ctx, &model.User{ID: 99, Role: model.RoleRealtor}, existing.ID, model.PropertyStatusPaused)
			Expect(err).To(MatchError(service.ErrForbidden))
		})
	})

	Describe("Search", func() {
		It("always restricts to active listings", func() {
			properties.searchFn = func(_ context.Context, f model.PropertyFilter) ([]model.Property, error) {
				Expect(*f.Status).To(Equal(model.PropertyStatusActive))
				Expect(f.OwnerID).To(BeNil())
				return []model.Property{{ID: 1}, {ID: 2}}, nil
			}
			images.listByPropertiesFn = func(_ context.Context, ids []int64) (map[int64][]model.Image, error) {
				Expect(ids).To(Equal([]int64{1, 2}))
				return map[int64][]model.Image{2: {{ID: 20}}}, nil
			}

			draft := model.PropertyStatusDraft
			props, err := svc.Search(ctx, model.PropertyFilter{Status: &draft, OwnerID: int64Ptr(5)})
			Expect(err).NotTo(HaveOccurred())
			Expect(props[0].Images).To(BeEmpty())
			Expect(props[1].Images).To(HaveLen(1))
		})

		It("rejects an inverted price range", func() {
			_, err := svc.Search(ctx, model.PropertyFilter{MinPrice: int64Ptr(10), MaxPrice: int64Ptr(5)})
			Expect(errors.Is(err, service.ErrInvalidInput)).To(BeTrue())
		})
	})

	Describe("images", func() {
		It("uploads into the property folder after the last position in use", func() {
			// Four images left after a delete, positions 0,1,2,4.
			images.countFn = func(_ context.Context, _ int64) (int, error) { return 4, nil }
			images.nextSortOrderFn = func(_ context.Context, _ int64) (int, error) { return 5, nil }
			img, err := svc.UploadImage(ctx, owner, existing.ID, bytes.NewBufferString("jpeg"))
			Expect(err).NotTo(HaveOccurred())
			Expect(mediaStore.uploads).To(Equal([]string{"properties/300"}))
			Expect(img.SortOrder).To(Equal(5))
			Expect(img.PublicID).To(Equal("properties/300/abc"))
		})

		It("caps the gallery", func() {
			images.countFn = func(_ context.Context, _ int64) (int, error) { return service.MaxImagesPerProperty, nil }
			_, err := svc.UploadImage(ctx, owner, existing.ID, bytes.NewBufferString("jpeg"))
			Expect(err).To(MatchError(service.ErrTooManyImages))
			Expect(mediaStore.uploads).To(BeEmpty())
		})

		It("destroys the asset when the row cannot be saved", func() {
			images.createFn = func(_ context.Context, _ *model.Image) error { return errors.New("db down") }
			_, err := svc.UploadImage(ctx, owner, existing.ID, bytes.NewBufferString("jpeg"))
			Expect(err).To(HaveOccurred())
			Expect(mediaStore.destroyed).To(Equal([]string{"properties/300/abc"}))
		})

		It("reorders with the full id list", func() {
			images.listByPropertyFn = func(_ context.Context, _ int64) ([]model.Image, error) {
				return []model.Image{{ID: 1}, {ID: 2}, {ID: 3}}, nil
			}
			var order map[int64]int
			images.setSortOrderFn = func(_ context.Context, _ int64, o map[int64]int) error {
				order = o
				return nil
			}

			_, err := svc.ReorderImages(ctx, owner, existing.ID, []int64{3, 1, 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(order).To(Equal(map[int64]int{3: 0, 1: 1, 2: 2}))

			_, err = svc.ReorderImages(ctx, owner, existing.ID, []int64{3, 1})
			Expect(errors.Is(err, service.ErrInvalidInput)).To(BeTrue())
		})

		It("will not delete another property's image", func() {
			images.getByIDFn = func(_ context.Context, id int64) (*model.Image, error) {
				return &model.Image{ID: id, PropertyID: 1}, nil
			}
			err := svc.DeleteImage(ctx, owner, existing.ID, 5)
			Expect(err).To(MatchError(service.ErrImageNotFound))
			Expect(mediaStore.destroyed).To(BeEmpty())
		})
	})

	Describe("GenerateDescription", func() {
		It("uses the model when AI is enabled", func() {
			d, err := svc.GenerateDescription(ctx, owner, existing.ID, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Fallback).To(BeFalse())
			Expect(d.Text).To(Equal("Casa ampla com quintal gramado."))
		})

		It("uses the template when AI is switched off", func() {
			settings.values[model.SettingAIEnabled] = "false"
			d, err := svc.GenerateDescription(ctx, owner, existing.ID, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Fallback).To(BeTrue())
			Expect(d.Text).To(HavePrefix("Casa para alugar em Natal - RN."))
			Expect(llmClient.calls).To(BeZero())
		})
	})
})
