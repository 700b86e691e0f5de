package profile

// MediaRefs returns pointers to every field that can hold a stored media path
// or remote media URL: the profile picture, company/school/organization logos
// and project thumbnails. Callers mutate through the pointers, so rewriting
// paths after a migration or promotion touches the aggregate in place.
func (p *Profile) MediaRefs() []*string {
	refs := make([]*string, 0, 1+len(p.Experiences)+len(p.Education)+len(p.Volunteering)+len(p.Projects))
	if p.ProfilePictureURL != nil {
		refs = append(refs, p.ProfilePictureURL)
	}
	for i := range p.Experiences {
		if p.Experiences[i].CompanyLogoURL != nil {
			refs = append(refs, p.Experiences[i].CompanyLogoURL)
		}
	}
	for i := range p.Education {
		if p.Education[i].SchoolPictureURL != nil {
			refs = append(refs, p.Education[i].SchoolPictureURL)
		}
	}
	for i := range p.Volunteering {
		if p.Volunteering[i].OrganizationLogoURL != nil {
			refs = append(refs, p.Volunteering[i].OrganizationLogoURL)
		}
	}
	for i := range p.Projects {
		if p.Projects[i].Thumbnail != nil {
			refs = append(refs, p.Projects[i].Thumbnail)
		}
	}
	return refs
}
