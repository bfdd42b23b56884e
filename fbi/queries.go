package fbi

const manifestationQuery = `
    query getManifestationViaMaterialByFaust($faust: String!) {
  manifestation(faust: $faust) {
    pid
    titles {
      full
    }
    creators {
      display
    }
    cover {
      thumbnail
    }
    materialTypes {
      materialTypeSpecific {
        display
      }
    }
  }
}`

const branchQuery = `
 query LibraryFragmentsSearch($q: String, $limit: PaginationLimitScalar, $offset: Int, $language: LanguageCodeEnum, $agencyId: String, $agencyTypes: [AgencyTypeEnum!]) {
 branches(q: $q, agencyid: $agencyId, language: $language, limit: $limit, offset: $offset, bibdkExcludeBranches:true, statuses:AKTIVE, agencyTypes: $agencyTypes) {
 hitcount
 result {
 agencyName
 agencyId
 branchId
 name }
 }
 }`

const statusQuery = `
    query BasicUser {
      user {
        name
        mail
        address
        postalCode
        municipalityAgencyId
        debt {
          title
          amount
          creator
          date
          currency
          agencyId
        }
        loans {
          agencyId
          loanId
          dueDate
          title
          creator
          manifestation {
            pid
            titles {
              main
              full
            }
            creators {
              ... on Corporation {
                display
              }
              ... on Person {
                display
              }
            }
            materialTypes {
              materialTypeSpecific {
                display
              }
            }
            cover {
              thumbnail
            }
          }
        }
        orders {
          orderId
          status
          pickUpBranch {
            agencyName
            agencyId
          }
          pickUpExpiryDate
          holdQueuePosition
          creator
          orderType
          orderDate
          title
          manifestation {
            pid
            titles {
              main
              full
            }
            creators {
              ... on Corporation {
                display
              }
              ... on Person {
                display
              }
            }
            materialTypes {
              materialTypeSpecific {
                display
              }
            }
            cover {
              thumbnail
            }
          }
        }
      }
    }`
