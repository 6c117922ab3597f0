package manifest

import "luxbyte/internal/domain"

const (
	// DefaultMaxSizeBytes is the upload size cap applied to every document.
	DefaultMaxSizeBytes = 5 << 20 // 5 MiB

	logoSide       = 512
	facadeMinWidth = 1280
)

var (
	imageOnly = []domain.FileType{domain.FileTypeJPG, domain.FileTypePNG}
	pngOnly   = []domain.FileType{domain.FileTypePNG}
	jpgOnly   = []domain.FileType{domain.FileTypeJPG}
	pdfOrJPG  = []domain.FileType{domain.FileTypePDF, domain.FileTypeJPG}
)

func req(id, label, canonical string, formats []domain.FileType, dims *domain.DimensionRule, mandatory bool) domain.DocumentRequirement {
	return domain.DocumentRequirement{
		ID:              id,
		Label:           label,
		AcceptedFormats: formats,
		MaxSizeBytes:    DefaultMaxSizeBytes,
		Dimensions:      dims,
		Mandatory:       mandatory,
		PathTemplate:    "registrations/{uid}/" + id,
		CanonicalName:   canonical,
	}
}

func exact(side int) *domain.DimensionRule {
	return &domain.DimensionRule{Width: side, Height: side}
}

func minWidth(w int) *domain.DimensionRule {
	return &domain.DimensionRule{MinWidth: w}
}

// storefront returns the logo + facade pair shared by every venue-based
// activity.
func storefront(prefix string) []domain.DocumentRequirement {
	return []domain.DocumentRequirement{
		req(prefix+"_logo", "Brand logo", "logo", pngOnly, exact(logoSide), true),
		req(prefix+"_facade", "Storefront photo", "facade", jpgOnly, minWidth(facadeMinWidth), true),
	}
}

// courierRequired is the base set shared with the driver manifest. Drivers
// submit independently reviewed copies of every courier document, so the
// driver manifest composes this list rather than referencing courier uploads.
func courierRequired() []domain.DocumentRequirement {
	return []domain.DocumentRequirement{
		req("courier_id_front", "National ID (front)", "id_front", imageOnly, minWidth(800), true),
		req("courier_id_back", "National ID (back)", "id_back", imageOnly, minWidth(800), true),
		req("courier_photo", "Personal photo", "photo", imageOnly, exact(logoSide), true),
		req("courier_criminal_record", "Criminal record certificate", "criminal_record", pdfOrJPG, nil, true),
	}
}

func courierOptional() []domain.DocumentRequirement {
	return []domain.DocumentRequirement{
		req("courier_residence_proof", "Proof of residence", "residence_proof", pdfOrJPG, nil, false),
	}
}

func builtinManifests() []*domain.ActivityManifest {
	restaurant := &domain.ActivityManifest{
		Activity: domain.ActivityRestaurant,
		Required: append(storefront("restaurant"),
			req("restaurant_cr", "Commercial register", "cr", pdfOrJPG, nil, true),
			req("restaurant_tax_card", "Tax card", "tax_card", pdfOrJPG, nil, true),
			req("restaurant_health_license", "Health license", "health_license", pdfOrJPG, nil, true),
		),
		Optional: []domain.DocumentRequirement{
			req("restaurant_menu", "Menu", "menu", []domain.FileType{domain.FileTypePDF}, nil, false),
		},
	}

	pharmacy := &domain.ActivityManifest{
		Activity: domain.ActivityPharmacy,
		Required: append(storefront("pharmacy"),
			req("pharmacy_practice_license", "Pharmacy practice license", "practice_license", pdfOrJPG, nil, true),
			req("pharmacy_cr", "Commercial register", "cr", pdfOrJPG, nil, true),
		),
		Optional: []domain.DocumentRequirement{
			req("pharmacy_tax_card", "Tax card", "tax_card", pdfOrJPG, nil, false),
		},
	}

	supermarket := &domain.ActivityManifest{
		Activity: domain.ActivitySupermarket,
		Required: append(storefront("supermarket"),
			req("supermarket_cr", "Commercial register", "cr", pdfOrJPG, nil, true),
			req("supermarket_tax_card", "Tax card", "tax_card", pdfOrJPG, nil, true),
		),
		Optional: []domain.DocumentRequirement{
			req("supermarket_municipal_license", "Municipal license", "municipal_license", pdfOrJPG, nil, false),
		},
	}

	clinic := &domain.ActivityManifest{
		Activity: domain.ActivityClinic,
		Required: append(storefront("clinic"),
			req("clinic_medical_license", "Medical practice license", "medical_license", pdfOrJPG, nil, true),
			req("clinic_cr", "Commercial register", "cr", pdfOrJPG, nil, true),
		),
		Optional: []domain.DocumentRequirement{
			req("clinic_syndicate_card", "Doctors' syndicate card", "syndicate_card", pdfOrJPG, nil, false),
		},
	}

	courier := &domain.ActivityManifest{
		Activity: domain.ActivityCourier,
		Required: courierRequired(),
		Optional: courierOptional(),
	}

	driver := &domain.ActivityManifest{
		Activity: domain.ActivityDriver,
		Required: append(courierRequired(),
			req("driver_license_front", "Driving license (front)", "license_front", imageOnly, minWidth(800), true),
			req("driver_license_back", "Driving license (back)", "license_back", imageOnly, minWidth(800), true),
			req("driver_vehicle_license", "Vehicle license", "vehicle_license", pdfOrJPG, nil, true),
		),
		Optional: append(courierOptional(),
			req("driver_vehicle_photo", "Vehicle photo", "vehicle_photo", imageOnly, minWidth(800), false),
		),
	}

	return []*domain.ActivityManifest{restaurant, pharmacy, supermarket, clinic, courier, driver}
}
