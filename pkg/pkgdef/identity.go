// SPDX-License-Identifier: MPL-2.0

package pkgdef

import (
	"strings"

	"github.com/google/uuid"
)

type (
	// PackageID is the stable identifier of a product line. It becomes the
	// MSI UpgradeCode: keeping it across releases makes a new version an
	// upgrade, changing it makes the package a different product.
	PackageID string

	// ProductIdentity names the product being packaged.
	ProductIdentity struct {
		Name         string    `json:"name"`
		PackageID    PackageID `json:"package_id"`
		Manufacturer string    `json:"manufacturer"`
		Version      Version   `json:"version"`
	}
)

// ParsePackageID parses a UUID in any form uuid.Parse accepts (plain,
// braced, urn:uuid:) and returns it in canonical lower-case form.
func ParsePackageID(s string) (PackageID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", &InvalidIdentityError{Field: "package id", Value: s, Reason: "not a UUID"}
	}
	if id == uuid.Nil {
		return "", &InvalidIdentityError{Field: "package id", Value: s, Reason: "the nil UUID cannot identify a product"}
	}
	return PackageID(id.String()), nil
}

// NewPackageID returns a fresh random package id.
func NewPackageID() PackageID {
	return PackageID(uuid.New().String())
}

// String returns the string representation of the PackageID.
func (p PackageID) String() string { return string(p) }

// IsValid reports whether the PackageID is a syntactically valid, non-nil UUID.
func (p PackageID) IsValid() (bool, []error) {
	if _, err := ParsePackageID(string(p)); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// Braced returns the upper-case braced GUID form Windows Installer tables use.
func (p PackageID) Braced() string {
	id, err := uuid.Parse(string(p))
	if err != nil {
		return string(p)
	}
	return "{" + strings.ToUpper(id.String()) + "}"
}

// NewProductIdentity validates and assembles a ProductIdentity.
// All problems are returned together.
func NewProductIdentity(name string, packageID string, manufacturer string, version Version) (ProductIdentity, []error) {
	var errs []error

	if strings.TrimSpace(name) == "" {
		errs = append(errs, &InvalidIdentityError{Field: "name", Reason: "cannot be empty"})
	}
	if strings.TrimSpace(manufacturer) == "" {
		errs = append(errs, &InvalidIdentityError{Field: "manufacturer", Reason: "cannot be empty"})
	}

	id, err := ParsePackageID(packageID)
	if err != nil {
		errs = append(errs, err)
	}

	if ok, verrs := version.IsValid(); !ok {
		errs = append(errs, verrs...)
	}

	if len(errs) > 0 {
		return ProductIdentity{}, errs
	}
	return ProductIdentity{
		Name:         strings.TrimSpace(name),
		PackageID:    id,
		Manufacturer: strings.TrimSpace(manufacturer),
		Version:      version,
	}, nil
}
